// Package metrics exposes Prometheus metrics for the lock coordinator and any
// ad-hoc metrics an application adds.
//
// Each Metrics owns an isolated registry wrapped with a constant service
// label, so several services in one process never collide.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		Namespace:               "cms",
//		ServiceName:             "backoffice",
//	})
//	go m.Server.ListenAndServe()
//
//	start := time.Now()
//	// ... acquire lock ...
//	m.ObserveLockAcquired("SqlServer", "write", time.Since(start))
//
// # Lock Metrics
//
//   - lock_acquisitions_total{provider, mode}: successful acquisitions
//   - lock_failures_total{provider, mode, reason}: failures; reason is one of
//     timeout, deadlock, not_found, isolation or error
//   - lock_wait_seconds{provider, mode}: time spent acquiring
//
// mode is "read" or "write". All names carry the configured namespace prefix.
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule, // provides *Metrics and LockRecorder
//		fx.Provide(func() metrics.Config {
//			return metrics.Config{Address: ":9090", ServiceName: "cms"}
//		}),
//	)
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=cms
//	METRICS_SERVICE_NAME=backoffice
//
// # Custom Metrics
//
//	published := m.CreateCounter("content_published_total", "Published content items", []string{"type"})
//	published.WithLabelValues("article").Inc()
//
// All methods are safe for concurrent use.
package metrics
