// Package cellstore persists cell records in the vector database and
// queries them back by similarity.
//
// It sits between the analysis pipeline and the database-agnostic
// vectordb.Service: records are flattened into point payloads keyed by the
// cell UUID, namespaced per application via an application_id payload
// field, and only records that carry an embedding vector are eligible for
// storage. Records without a vector are counted and skipped, never
// half-inserted.
//
// Example:
//
//	store := cellstore.NewStore(db, cellstore.Config{Collection: "cells", VectorSize: 512})
//	stored, skipped, err := store.InsertBatch(ctx, "exp-042", records)
package cellstore
