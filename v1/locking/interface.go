package locking

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
)

// Logger is the subset of the logger package the coordinator writes to.
// *logger.Logger implements it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Tracer starts spans around lock acquisitions. *tracer.Tracer implements it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// Func runs while the locks are held. db is bound to the transaction that
// holds them; returning an error rolls the transaction back.
type Func func(ctx context.Context, db sqlsyntax.Database) error
