package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(tracing bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{Zap: zap.New(core), tracingEnabled: tracing}, logs
}

func TestLevels(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelOf(Debug))
	assert.Equal(t, zapcore.InfoLevel, levelOf(Info))
	assert.Equal(t, zapcore.WarnLevel, levelOf(Warning))
	assert.Equal(t, zapcore.ErrorLevel, levelOf(Error))
	assert.Equal(t, zapcore.InfoLevel, levelOf("production"))
}

func TestFieldsAndErrors(t *testing.T) {
	log, logs := newObserved(false)

	log.Error("write lock failed", errors.New("lock timeout"), map[string]interface{}{
		"lock_id": -333,
	}, map[string]interface{}{
		"provider": "PostgreSql",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "lock timeout", fields["error"])
	assert.EqualValues(t, -333, fields["lock_id"])
	assert.Equal(t, "PostgreSql", fields["provider"])
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "lock")
	defer span.End()

	log, logs := newObserved(true)
	log.InfoWithContext(ctx, "acquired", nil)
	log.DebugWithContext(context.Background(), "no span", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[0].ContextMap()["span_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")

	disabled, disabledLogs := newObserved(false)
	disabled.WarnWithContext(ctx, "acquired", nil)
	assert.NotContains(t, disabledLogs.All()[0].ContextMap(), "trace_id")
}

func TestFXModule(t *testing.T) {
	var log *Logger
	app := fxtest.New(t,
		fx.Supply(Config{Level: Debug, ServiceName: "test"}),
		FXModule,
		fx.Populate(&log),
	)
	app.RequireStart()
	require.NotNil(t, log)
	log.Debug("started", nil)
	app.RequireStop()
}
