package pipeline

import "github.com/cytosearch/cytosearch/v1/embedding"

// StorageBackend selects where complete records are persisted.
type StorageBackend int

const (
	// StorageNone keeps records in memory only; nothing is written.
	StorageNone StorageBackend = iota

	// StorageVector inserts records into the vector store and uploads
	// their crop artifacts.
	StorageVector
)

// Options parameterizes one BuildCellRecords call. The previously
// divergent acquisition-time and reprocessing paths both run through this
// single pipeline with different options.
type Options struct {
	// ApplicationID namespaces persisted records and artifacts.
	ApplicationID string

	// IncludePosition resolves stage coordinates and well metadata onto
	// each record when the acquisition status allows it.
	IncludePosition bool

	// Storage selects the persistence target.
	Storage StorageBackend

	// EmbeddingTypes lists the embeddings to request for each crop. The
	// first type that yields a vector becomes the record's embedding.
	EmbeddingTypes []embedding.Type
}

// DefaultOptions requests CLIP embeddings with vector storage and
// position metadata enabled.
func DefaultOptions(applicationID string) Options {
	return Options{
		ApplicationID:   applicationID,
		IncludePosition: true,
		Storage:         StorageVector,
		EmbeddingTypes:  []embedding.Type{embedding.TypeCLIP},
	}
}
