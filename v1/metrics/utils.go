package metrics

import "github.com/prometheus/client_golang/prometheus"

// CreateCounter creates a CounterVec and registers it on the service
// registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	m.wrapped.MustRegister(counter)
	return counter
}

// CreateHistogram creates a HistogramVec with the given buckets and
// registers it on the service registry.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
	m.wrapped.MustRegister(hist)
	return hist
}

// CreateGauge creates a GaugeVec and registers it on the service registry.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	m.wrapped.MustRegister(gauge)
	return gauge
}
