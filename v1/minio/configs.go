package minio

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full configuration for the MinIO artifact store.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"` // Connection details for the MinIO server
	Presigned  PresignedConfig  `yaml:"presigned"`  // Configuration for presigned operations
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string `yaml:"endpoint"`          // MinIO server endpoint, e.g., "localhost:9000"
	AccessKeyID     string `yaml:"access_key_id"`     // MinIO access key
	SecretAccessKey string `yaml:"secret_access_key"` // MinIO secret key
	UseSSL          bool   `yaml:"use_ssl"`           // Use SSL (true for "https", false for "http")
	BucketName      string `yaml:"bucket_name"`       // Bucket holding all cell artifacts
	Region          string `yaml:"region"`            // Region for the bucket (e.g., "us-east-1")
}

// PresignedConfig contains configuration options for presigned URLs.
type PresignedConfig struct {
	ExpiryDuration time.Duration `yaml:"expiry_duration"` // Expiration for presigned URLs (e.g., 15m)
}

// NewConfig reads the MinIO configuration from environment variables.
func NewConfig() *Config {
	cfg := &Config{
		Connection: ConnectionConfig{
			Endpoint:        os.Getenv("MINIO_ENDPOINT"),
			AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("MINIO_SECRET_KEY"),
			BucketName:      os.Getenv("MINIO_BUCKET"),
			Region:          os.Getenv("MINIO_REGION"),
		},
		Presigned: PresignedConfig{
			ExpiryDuration: 15 * time.Minute,
		},
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Connection.UseSSL = b
		}
	}
	if cfg.Connection.BucketName == "" {
		cfg.Connection.BucketName = "cytosearch"
	}
	return cfg
}

// Validate checks that the configuration has the required fields set.
func (c *Config) Validate() error {
	if c.Connection.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if c.Connection.BucketName == "" {
		return fmt.Errorf("minio bucket name is required")
	}
	return nil
}
