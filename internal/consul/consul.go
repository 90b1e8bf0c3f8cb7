package consul

import (
	"fmt"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// NewClient builds a consul client from the standard CONSUL_HTTP_* env vars.
func NewClient() (*consulapi.Client, error) {
	client, err := consulapi.NewClient(consulapi.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	return client, nil
}

// RegisterService registers this instance with consul so the gateway can
// discover it. Health is checked over the /ping endpoint.
func RegisterService(client *consulapi.Client, serviceName string, host string, port string) error {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      serviceName + "-" + host + "-" + port,
		Name:    serviceName,
		Address: host,
		Port:    portNum,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%s/ping", host, port),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service %s: %w", serviceName, err)
	}
	return nil
}

// DeregisterService removes this instance from consul on shutdown.
func DeregisterService(client *consulapi.Client, serviceName string, host string, port string) error {
	if err := client.Agent().ServiceDeregister(serviceName + "-" + host + "-" + port); err != nil {
		return fmt.Errorf("failed to deregister service %s: %w", serviceName, err)
	}
	return nil
}
