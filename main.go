package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/handlers"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/checkout"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/config"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/consul"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/orders"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/stores/kafka"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/stores/postgres"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/joho/godotenv"
)

func main() {
	if err := startApp(); err != nil {
		slog.Error("fatal", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}

	invConf, err := inventory.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db, &invConf, cfg.CartMaxLineQty)
	if err != nil {
		return err
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	store, err := checkout.NewPostgresStore(db, &invConf, &ordersConf)
	if err != nil {
		return err
	}

	// Kafka is optional locally; without brokers checkout still works, it
	// just produces no notifications.
	var kafkaConf *kafka.Conf
	var notifier checkout.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaConf, err = kafka.NewConf(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer kafkaConf.Close()
		kn, err := checkout.NewKafkaNotifier(kafkaConf)
		if err != nil {
			return err
		}
		notifier = kn
	} else {
		slog.Warn("KAFKA_BROKERS not set, order notifications disabled")
	}

	engine, err := checkout.NewEngine(&cartConf, &invConf, store, notifier, cfg.CheckoutTimeout)
	if err != nil {
		return err
	}

	pubPEM, err := os.ReadFile(cfg.AuthPublicKey)
	if err != nil {
		return err
	}
	keys, err := auth.NewKeys(pubPEM)
	if err != nil {
		return err
	}

	if consulClient, err := consul.NewClient(); err != nil {
		slog.Warn("consul unavailable, skipping registration", slog.String(logkey.ERROR, err.Error()))
	} else {
		host, _ := os.Hostname()
		if err := consul.RegisterService(consulClient, cfg.ServiceName, host, cfg.HTTPPort); err != nil {
			slog.Warn("consul registration failed", slog.String(logkey.ERROR, err.Error()))
		} else {
			defer func() {
				if err := consul.DeregisterService(consulClient, cfg.ServiceName, host, cfg.HTTPPort); err != nil {
					slog.Error("consul deregistration failed", slog.String(logkey.ERROR, err.Error()))
				}
			}()
		}
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepStaleCarts(sweepCtx, &cartConf, cfg.CartTTL, cfg.CartSweepInterval)

	r := handlers.API(cfg.EndpointPrefix, keys, &cartConf, &ordersConf, engine, kafkaConf)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("Port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", slog.String("Signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return err
		}
	}
	return nil
}

// sweepStaleCarts periodically drops cart lines older than the TTL.
func sweepStaleCarts(ctx context.Context, c *cart.Conf, ttl time.Duration, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.ExpireStale(ctx, ttl)
			if err != nil {
				slog.Error("stale cart sweep failed", slog.String(logkey.ERROR, err.Error()))
				continue
			}
			if removed > 0 {
				slog.Info("stale cart lines removed", slog.Int64("Removed", removed))
			}
		}
	}
}
