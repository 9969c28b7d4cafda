package metrics

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector abstracts the metric factories so instrument bundles
// (PipelineMetrics, Observer) can be built against an interface in tests.
//
// Implemented by the concrete *Metrics type.
type MetricsCollector interface {
	// CreateCounter creates a CounterVec and registers it.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates a HistogramVec and registers it.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates a GaugeVec and registers it.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
