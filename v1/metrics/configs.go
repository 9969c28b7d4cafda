package metrics

import (
	"os"
	"strconv"
)

// Config holds the metrics server settings.
type Config struct {
	// Address is the listen address of the /metrics HTTP server.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// ServiceName is applied as a constant `service` label to every metric.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`

	// EnableDefaultCollectors registers the Go, process, and build info
	// collectors on the registry.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_DEFAULT_COLLECTORS"`
}

// NewConfig reads the metrics configuration from environment variables,
// falling back to defaults.
func NewConfig() Config {
	cfg := Config{
		Address:                 ":9090",
		ServiceName:             "cytosearch",
		EnableDefaultCollectors: true,
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("METRICS_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("METRICS_DEFAULT_COLLECTORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableDefaultCollectors = b
		}
	}
	return cfg
}
