package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics carries the instruments of the cell analysis pipeline.
// All metrics are registered on the service's isolated registry.
type PipelineMetrics struct {
	cellsProcessed     *prometheus.CounterVec
	cellsDropped       *prometheus.CounterVec
	embedBatchDuration *prometheus.HistogramVec
	queueDepth         *prometheus.GaugeVec
	jobsCompleted      *prometheus.CounterVec
	jobFailures        *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline instruments on the shared
// metrics registry.
func NewPipelineMetrics(m *Metrics) *PipelineMetrics {
	return &PipelineMetrics{
		cellsProcessed: m.CreateCounter(
			"pipeline_cells_processed_total",
			"Total number of cells that produced a record",
			[]string{"image_id"},
		),
		cellsDropped: m.CreateCounter(
			"pipeline_cells_dropped_total",
			"Total number of cells dropped during processing",
			[]string{"reason"},
		),
		embedBatchDuration: m.CreateHistogram(
			"pipeline_embed_batch_duration_seconds",
			"Duration of embedding service batch calls in seconds",
			[]string{"status"},
			prometheus.DefBuckets,
		),
		queueDepth: m.CreateGauge(
			"jobs_queue_depth",
			"Current number of queued jobs per queue",
			[]string{"queue"},
		),
		jobsCompleted: m.CreateCounter(
			"jobs_completed_total",
			"Total number of completed jobs per queue",
			[]string{"queue"},
		),
		jobFailures: m.CreateCounter(
			"jobs_failed_total",
			"Total number of failed jobs per queue",
			[]string{"queue"},
		),
	}
}

// CellProcessed counts one cell that produced a record for the image.
func (p *PipelineMetrics) CellProcessed(imageID string) {
	p.cellsProcessed.WithLabelValues(imageID).Inc()
}

// CellsDropped counts cells dropped for a reason such as "empty_region",
// "no_signal", or "panic".
func (p *PipelineMetrics) CellsDropped(reason string, n int) {
	if n > 0 {
		p.cellsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveEmbedBatch records the duration of one embedding batch call.
// Example: defer pm.ObserveEmbedBatch(time.Now(), "success")
func (p *PipelineMetrics) ObserveEmbedBatch(start time.Time, status string) {
	p.embedBatchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

// SetQueueDepth reports the current depth of a job queue.
func (p *PipelineMetrics) SetQueueDepth(queue string, depth int) {
	p.queueDepth.WithLabelValues(queue).Set(float64(depth))
}

// JobCompleted counts one completed job for the queue.
func (p *PipelineMetrics) JobCompleted(queue string) {
	p.jobsCompleted.WithLabelValues(queue).Inc()
}

// JobFailed counts one failed job for the queue.
func (p *PipelineMetrics) JobFailed(queue string) {
	p.jobFailures.WithLabelValues(queue).Inc()
}
