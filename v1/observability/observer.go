package observability

import "time"

// OperationContext describes one completed operation against an external
// resource (object store, vector database, inference endpoint, ...).
// It is the unit handed to an Observer for metrics and tracing.
type OperationContext struct {
	// Component identifies the package emitting the observation, e.g. "minio" or "qdrant".
	Component string

	// Operation is the logical operation name, e.g. "put", "search", "embed_batch".
	Operation string

	// Resource is the primary resource acted on (bucket, collection, endpoint).
	Resource string

	// SubResource narrows the resource when applicable (object key, point id).
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is the error the operation returned, or nil on success.
	Error error

	// Size is an operation-dependent payload size in bytes or items, -1 if unknown.
	Size int64

	// Metadata carries small, low-cardinality extras (batch size, status, ...).
	Metadata map[string]interface{}
}

// Observer receives operation observations from infrastructure clients.
// Implementations must be safe for concurrent use; a nil Observer on a
// client disables observation entirely.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}
