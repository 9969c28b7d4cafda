// Package qdrant provides the Qdrant implementation of the vectordb.Service
// interface.
//
// It wraps the official Qdrant Go client with application-level operations:
// collection bootstrap, batched upserts, fetch by id, similarity search with
// converted filters, and filter-scoped deletes. A health check runs at
// construction so an unreachable Qdrant fails fast instead of failing on the
// first insert.
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
//	var db vectordb.Service = qdrant.NewAdapter(client)
//
// The Insert method splits large batches into chunks of defaultBatchSize
// upserts to bound memory and avoid request timeouts. All exported methods
// are safe for concurrent use.
package qdrant
