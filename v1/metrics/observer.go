package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cytosearch/cytosearch/v1/observability"
)

// Observer implements observability.Observer on top of the Prometheus
// registry. Storage clients (minio, qdrant) emit their operation timings
// into it without depending on Prometheus themselves.
type Observer struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationBytes    *prometheus.CounterVec
}

// NewObserver registers the operation instruments on the shared registry.
func NewObserver(m *Metrics) *Observer {
	return &Observer{
		operationsTotal: m.CreateCounter(
			"storage_operations_total",
			"Total number of storage operations by component and status",
			[]string{"component", "operation", "status"},
		),
		operationDuration: m.CreateHistogram(
			"storage_operation_duration_seconds",
			"Duration of storage operations in seconds",
			[]string{"component", "operation"},
			prometheus.DefBuckets,
		),
		operationBytes: m.CreateCounter(
			"storage_operation_bytes_total",
			"Total bytes moved by storage operations",
			[]string{"component", "operation"},
		),
	}
}

// ObserveOperation records one storage operation.
func (o *Observer) ObserveOperation(op observability.OperationContext) {
	status := "success"
	if op.Error != nil {
		status = "error"
	}

	o.operationsTotal.WithLabelValues(op.Component, op.Operation, status).Inc()
	o.operationDuration.WithLabelValues(op.Component, op.Operation).Observe(op.Duration.Seconds())
	if op.Size > 0 {
		o.operationBytes.WithLabelValues(op.Component, op.Operation).Add(float64(op.Size))
	}
}
