package vectordb

import "context"

// Service is the common interface for all vector databases.
// It provides a database-agnostic abstraction for vector similarity search,
// allowing the application to switch between implementations without
// changing application code.
type Service interface {
	// Search performs similarity search for one or more requests and
	// returns one result slice per request, in request order.
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Insert adds embeddings to a collection. Large inputs are split into
	// batches internally.
	Insert(ctx context.Context, collectionName string, inputs []EmbeddingInput) error

	// Fetch retrieves points by ID, payload included, vector included when
	// withVector is set. Missing IDs are silently absent from the result.
	Fetch(ctx context.Context, collectionName string, ids []string, withVector bool) ([]SearchResult, error)

	// Delete removes points by their IDs from a collection.
	Delete(ctx context.Context, collectionName string, ids []string) error

	// DeleteByFilter removes every point matching the filter and reports
	// how many points the collection lost.
	DeleteByFilter(ctx context.Context, collectionName string, filters *FilterSet) (uint64, error)

	// EnsureCollection creates a collection if it doesn't exist.
	// Safe to call multiple times; a no-op when the collection exists.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	// GetCollection retrieves metadata about a collection.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
