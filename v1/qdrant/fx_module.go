package qdrant

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// FXModule is an fx.Module that provides the Qdrant-backed vector database.
//
// The module:
//  1. Provides the Qdrant configuration from the environment
//  2. Provides the connected QdrantClient
//  3. Provides the Adapter bound to the vectordb.Service interface
//  4. Registers lifecycle hooks for graceful shutdown
//
// Usage:
//
//	app := fx.New(
//	    qdrant.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewConfig,
		NewQdrantClient,
		NewAdapter,
		func(a *Adapter) vectordb.Service { return a },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantLifecycleParams groups the dependencies needed for lifecycle management
type QdrantLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *QdrantClient
}

// RegisterQdrantLifecycle registers the Qdrant client with the fx lifecycle
// system. The connection is validated at construction time, so the hook only
// covers shutdown.
func RegisterQdrantLifecycle(params QdrantLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: Shutting down Qdrant client")
			return params.Client.Close()
		},
	})
}
