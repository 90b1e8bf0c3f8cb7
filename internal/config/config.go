package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the knobs the checkout engine and its surroundings read from
// the environment. Postgres connection settings are read directly by the
// postgres store package.
type Config struct {
	HTTPPort       string
	EndpointPrefix string
	ServiceName    string

	CartMaxLineQty    int
	CartTTL           time.Duration
	CartSweepInterval time.Duration
	CheckoutTimeout   time.Duration

	KafkaBrokers  []string
	AuthPublicKey string
}

func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8085"),
		EndpointPrefix: getEnv("SERVICE_ENDPOINT_PREFIX", "/v1"),
		ServiceName:    getEnv("SERVICE_NAME", "checkout"),
		AuthPublicKey:  getEnv("AUTH_PUBLIC_KEY", "pubkey.pem"),
	}

	var err error
	cfg.CartMaxLineQty, err = getEnvInt("CART_MAX_LINE_QTY", 100)
	if err != nil {
		return Config{}, err
	}
	if cfg.CartMaxLineQty <= 0 {
		return Config{}, fmt.Errorf("CART_MAX_LINE_QTY must be positive")
	}

	cfg.CartTTL, err = getEnvDuration("CART_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CartSweepInterval, err = getEnvDuration("CART_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.CheckoutTimeout, err = getEnvDuration("CHECKOUT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			b = strings.TrimSpace(b)
			if b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
