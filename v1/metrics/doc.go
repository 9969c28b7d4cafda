// Package metrics exposes Prometheus metrics for the analysis service.
//
// Each service gets its own isolated registry wrapped with a constant
// `service` label, an HTTP server on /metrics, and the default Go and
// process collectors. On top of the generic collector, PipelineMetrics
// carries the instruments of the cell analysis pipeline (cells processed
// and dropped, embedding batch duration, job queue depths, job failures),
// and Observer adapts the registry to the observability hook that the
// storage clients emit into.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    // other modules...
//	)
//
// Access metrics at: http://localhost:9090/metrics
package metrics
