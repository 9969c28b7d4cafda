// Package vectordb defines the database-agnostic contract for vector
// similarity storage used by the cell store.
//
// It provides the Service interface (insert, fetch, similarity search,
// delete, collection management) plus filter structures with boolean logic
// (Must/Should/MustNot). Database adapters (the qdrant package here)
// convert these to their native formats, so the application layer can switch
// vector databases without changing code.
//
// Example:
//
//	results, err := db.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: "cells",
//	    Vector:         queryVector,
//	    TopK:           25,
//	    Filters: vectordb.NewFilterSet(
//	        vectordb.Must(vectordb.NewMatch("application_id", "exp-042")),
//	    ),
//	})
package vectordb
