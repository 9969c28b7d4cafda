package cellstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/vectordb"
)

// FXModule is an fx.Module that provides the cell store and ensures its
// backing collection exists before the application starts serving.
var FXModule = fx.Module("cellstore",
	fx.Provide(
		NewConfig,
		NewStoreWithDI,
	),
	fx.Invoke(RegisterCellStoreLifecycle),
)

// StoreParams groups the dependencies needed to create the cell store
type StoreParams struct {
	fx.In

	DB     vectordb.Service
	Config *Config
	Logger *logger.Logger `optional:"true"`
}

// NewStoreWithDI creates the cell store using dependency injection.
func NewStoreWithDI(params StoreParams) *Store {
	store := NewStore(params.DB, *params.Config)
	if params.Logger != nil {
		store = store.WithLogger(params.Logger)
	}
	return store
}

// CellStoreLifecycleParams groups lifecycle dependencies
type CellStoreLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Store     *Store
}

// RegisterCellStoreLifecycle creates the cell collection on startup when
// it does not exist yet.
func RegisterCellStoreLifecycle(params CellStoreLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Store.EnsureCollection(ctx)
		},
	})
}
