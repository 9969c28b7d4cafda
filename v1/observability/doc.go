// Package observability defines the shared Observer contract that
// infrastructure clients in this repository emit operation observations into.
//
// Clients (minio, qdrant, embedding, segmentation) call ObserveOperation
// after each external call with the operation name, duration, error, and
// payload size. A concrete observer backed by Prometheus lives in the
// metrics package; tests typically use a small in-memory observer.
package observability
