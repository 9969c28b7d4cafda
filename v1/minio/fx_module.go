package minio

import (
	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/observability"
)

// FXModule is an fx.Module that provides the MinIO client and the
// artifact store built on top of it.
//
// Usage:
//
//	app := fx.New(
//	    minio.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("minio",
	fx.Provide(
		NewConfig,
		NewClientWithDI,
		func(c *MinioClient) Client { return c },
		NewArtifactStore,
	),
)

// MinioParams groups the dependencies needed to create a MinIO client
type MinioParams struct {
	fx.In

	Config   *Config
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new MinIO client using dependency injection,
// attaching the logger and observer when provided.
func NewClientWithDI(params MinioParams) (*MinioClient, error) {
	client, err := NewClient(*params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client = client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client = client.WithObserver(params.Observer)
	}
	return client, nil
}
