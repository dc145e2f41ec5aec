// Package logger provides the structured logger used across the module.
//
// It wraps zap with a small call shape, message plus optional error plus
// field maps, which is what the other packages accept through their own
// Logger interfaces:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "cms",
//		EnableTracing: true,
//	})
//
//	log.Info("provider registered", nil, map[string]interface{}{
//		"provider": "SqlServer",
//	})
//	log.Error("write lock failed", err, map[string]interface{}{
//		"lock_id": -333,
//	})
//
// # Context-Aware Logging
//
// When EnableTracing is set, the *WithContext methods add the OpenTelemetry
// trace_id and span_id of the span carried by ctx:
//
//	log.WarnWithContext(ctx, "lock wait exceeded budget", nil, nil)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Debug, ServiceName: "cms"}
//		}),
//	)
//
// The module flushes buffered entries on stop.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	SERVICE_NAME=cms
//	LOGGER_ENABLE_TRACING=true
//
// All methods are safe for concurrent use.
package logger
