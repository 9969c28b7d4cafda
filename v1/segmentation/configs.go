package segmentation

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Endpoint is the base URL of the segmentation service.
	Endpoint string `yaml:"endpoint" env:"SEGMENTATION_ENDPOINT"`

	// HTTPTimeoutS bounds one segmentation round trip. Model inference on
	// large frames is slow, so the default is generous.
	HTTPTimeoutS int `yaml:"http_timeout_s" env:"SEGMENTATION_HTTP_TIMEOUT_SECONDS"`

	// DefaultScale is the integer downsampling factor applied to the input
	// before calling the service when a job does not specify its own.
	DefaultScale int `yaml:"default_scale" env:"SEGMENTATION_DEFAULT_SCALE"`
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	timeout := 120
	if v := os.Getenv("SEGMENTATION_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}
	scale := 2
	if v := os.Getenv("SEGMENTATION_DEFAULT_SCALE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			scale = n
		}
	}

	return &Config{
		Endpoint:     os.Getenv("SEGMENTATION_ENDPOINT"),
		HTTPTimeoutS: timeout,
		DefaultScale: scale,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("segmentation: missing SEGMENTATION_ENDPOINT")
	}
	if c.DefaultScale < 1 {
		return fmt.Errorf("segmentation: scale must be >= 1")
	}
	return nil
}
