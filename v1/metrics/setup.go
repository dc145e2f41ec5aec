package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// lockWaitBuckets spans a fast uncontended lock up to several lock timeouts.
var lockWaitBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.8, 2.5, 5, 10}

// Metrics owns an isolated Prometheus registry and the HTTP server exposing it.
type Metrics struct {
	// Server serves the registry on /metrics.
	Server *http.Server

	// Registry holds every metric of this service. It is not shared with the
	// global default registry.
	Registry *prometheus.Registry

	namespace  string
	registerer prometheus.Registerer

	lockAcquisitions *prometheus.CounterVec
	lockFailures     *prometheus.CounterVec
	lockWait         *prometheus.HistogramVec
}

// NewMetrics creates the registry, wraps it with a constant service label,
// registers the lock metrics and prepares the HTTP server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:     ":9090",
//	    Namespace:   "cms",
//	    ServiceName: "backoffice",
//	})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Every metric gets service="<cfg.ServiceName>".
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		namespace:  cfg.Namespace,
		registerer: wrapped,
	}

	m.lockAcquisitions = createCounterVec(cfg.Namespace, "lock_acquisitions_total",
		"Total number of lock acquisitions on the lock table", []string{"provider", "mode"})
	m.lockFailures = createCounterVec(cfg.Namespace, "lock_failures_total",
		"Total number of failed lock acquisitions by reason", []string{"provider", "mode", "reason"})
	m.lockWait = createHistogramVec(cfg.Namespace, "lock_wait_seconds",
		"Time spent waiting for lock acquisitions in seconds", []string{"provider", "mode"}, lockWaitBuckets)

	wrapped.MustRegister(
		m.lockAcquisitions,
		m.lockFailures,
		m.lockWait,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
