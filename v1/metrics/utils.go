package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ObserveLockAcquired counts a successful acquisition and records its wait time.
// Example: m.ObserveLockAcquired("PostgreSql", "write", time.Since(start))
func (m *Metrics) ObserveLockAcquired(provider, mode string, wait time.Duration) {
	m.lockAcquisitions.WithLabelValues(provider, mode).Inc()
	m.lockWait.WithLabelValues(provider, mode).Observe(wait.Seconds())
}

// IncrementLockFailures counts a failed acquisition.
// Example: m.IncrementLockFailures("SqlServer", "write", "timeout")
func (m *Metrics) IncrementLockFailures(provider, mode, reason string) {
	m.lockFailures.WithLabelValues(provider, mode, reason).Inc()
}

// CreateCounter creates a new CounterVec and registers it under the service label.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec and registers it under the service label.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec and registers it under the service label.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
