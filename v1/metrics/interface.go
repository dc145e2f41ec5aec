package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LockRecorder records the outcome of lock acquisitions. *Metrics implements it.
type LockRecorder interface {
	// ObserveLockAcquired counts a successful acquisition and records how
	// long the caller waited for it.
	ObserveLockAcquired(provider, mode string, wait time.Duration)

	// IncrementLockFailures counts a failed acquisition by reason, such as
	// "timeout", "deadlock", "not_found" or "isolation".
	IncrementLockFailures(provider, mode, reason string)
}

// MetricsCollector is the full metrics surface: lock metrics plus factories
// for ad-hoc metrics registered under the service label.
type MetricsCollector interface {
	LockRecorder

	CreateCounter(name, help string, labels []string) *prometheus.CounterVec
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
