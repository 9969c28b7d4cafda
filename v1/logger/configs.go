package logger

import "os"

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls log level and the identity fields stamped on every entry.
type Config struct {
	// Level is one of debug, info, warning, error. Defaults to info.
	Level string `yaml:"level" env:"LOG_LEVEL"`

	// ServiceName appears as the "service" field in every log entry.
	ServiceName string `yaml:"service_name" env:"LOG_SERVICE_NAME"`
}

// NewConfig reads the logger configuration from environment variables.
func NewConfig() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = Info
	}
	service := os.Getenv("LOG_SERVICE_NAME")
	if service == "" {
		service = "cytosearch"
	}
	return Config{Level: level, ServiceName: service}
}
