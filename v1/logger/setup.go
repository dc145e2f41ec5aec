package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger behind the (msg, err, fields) call shape used by
// every component of this module.
type Logger struct {
	// Zap is exposed for zap-specific needs; prefer the wrapper methods.
	Zap *zap.Logger

	// tracingEnabled makes the *WithContext methods add trace_id and span_id.
	tracingEnabled bool
}

// NewLoggerClient builds a JSON zap logger writing to stderr.
//
// Entries carry an ISO8601 timestamp, the caller, the process id and the
// configured service name. A logger that cannot be built stops the process,
// since nothing else can report the failure.
//
// Example:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "cms"})
//	log.Info("lock acquired", nil, map[string]interface{}{"lock_id": -333})
func NewLoggerClient(cfg Config) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(levelOf(cfg.Level)),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	logger, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}

	return &Logger{
		Zap:            logger,
		tracingEnabled: cfg.EnableTracing,
	}
}

// NewFromZap wraps an existing zap logger, typically zap.NewNop() or a
// zaptest logger in tests. Tracing fields are enabled.
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{Zap: z, tracingEnabled: true}
}

func levelOf(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	}
	return zap.InfoLevel
}
