package locking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/rasmusjp/Umbraco-CMS/v1/metrics"
	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
)

const (
	ModeRead  = "read"
	ModeWrite = "write"
)

// Failure reasons reported to the LockRecorder.
const (
	ReasonTimeout   = "timeout"
	ReasonDeadlock  = "deadlock"
	ReasonNotFound  = "not_found"
	ReasonIsolation = "isolation"
	ReasonError     = "error"
)

// Coordinator runs work inside a transaction that holds rows of the lock
// table. It is safe for concurrent use; each call gets its own transaction.
type Coordinator struct {
	provider sqlsyntax.Provider
	db       *sql.DB
	log      Logger
	metrics  metrics.LockRecorder
	tracer   Tracer
}

// Option configures optional collaborators of a Coordinator.
type Option func(*Coordinator)

// WithMetrics records acquisitions and failures on r.
func WithMetrics(r metrics.LockRecorder) Option {
	return func(c *Coordinator) { c.metrics = r }
}

// WithTracer wraps every acquisition in a span.
func WithTracer(t Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// NewCoordinator creates a Coordinator that takes locks through provider on db.
// provider, db and log are required; metrics and tracing are optional.
func NewCoordinator(provider sqlsyntax.Provider, db *sql.DB, log Logger, opts ...Option) (*Coordinator, error) {
	switch {
	case provider == nil:
		return nil, ErrNilProvider
	case db == nil:
		return nil, ErrNilDatabase
	case log == nil:
		return nil, ErrNilLogger
	}

	c := &Coordinator{provider: provider, db: db, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithWriteLock opens a transaction at the provider's default isolation level,
// takes exclusive locks on ids in the given order and runs fn. A zero timeout
// uses sqlsyntax.DefaultLockTimeout. The transaction commits when fn returns
// nil and rolls back otherwise, releasing the locks either way.
//
//	err := c.WithWriteLock(ctx, []int{sqlsyntax.LockContentTree}, 0, func(ctx context.Context, db sqlsyntax.Database) error {
//	    _, err := db.Exec(ctx, `UPDATE "umbracoNode" SET trashed = true WHERE id = $1`, id)
//	    return err
//	})
func (c *Coordinator) WithWriteLock(ctx context.Context, ids []int, timeout time.Duration, fn Func) error {
	if timeout <= 0 {
		timeout = sqlsyntax.DefaultLockTimeout
	}
	return c.run(ctx, ModeWrite, ids, timeout, func(ctx context.Context, db sqlsyntax.Database) error {
		return c.provider.WriteLock(ctx, db, timeout, ids...)
	}, fn)
}

// WithReadLock is WithWriteLock with shared locks. Waiting is bounded only by
// ctx.
func (c *Coordinator) WithReadLock(ctx context.Context, ids []int, fn Func) error {
	return c.run(ctx, ModeRead, ids, 0, func(ctx context.Context, db sqlsyntax.Database) error {
		return c.provider.ReadLock(ctx, db, ids...)
	}, fn)
}

func (c *Coordinator) run(ctx context.Context, mode string, ids []int, timeout time.Duration, acquire, fn Func) (err error) {
	provider := c.provider.ProviderName()
	fields := map[string]interface{}{
		"provider": provider,
		"mode":     mode,
		"lock_ids": ids,
	}

	ctx, span := c.startSpan(ctx, mode, ids, timeout)
	if span != nil {
		defer span.End()
	}

	level := c.provider.DefaultIsolationLevel()
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		err = fmt.Errorf("failed to begin transaction: %w", err)
		c.recordError(span, err)
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.log.ErrorWithContext(ctx, "failed to roll back lock transaction", rbErr, fields)
		}
	}()

	db := sqlsyntax.NewDatabase(tx, level)

	started := time.Now()
	if err = acquire(ctx, db); err != nil {
		reason := FailureReason(err)
		if c.metrics != nil {
			c.metrics.IncrementLockFailures(provider, mode, reason)
		}
		c.recordError(span, err)
		c.log.WarnWithContext(ctx, "failed to acquire lock", err, withField(fields, "reason", reason))
		return err
	}
	wait := time.Since(started)
	if c.metrics != nil {
		c.metrics.ObserveLockAcquired(provider, mode, wait)
	}
	c.log.DebugWithContext(ctx, "lock acquired", nil, withField(fields, "wait_ms", wait.Milliseconds()))

	if err = fn(ctx, db); err != nil {
		c.recordError(span, err)
		return err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit lock transaction: %w", err)
		c.recordError(span, err)
		return err
	}
	committed = true
	return nil
}

func (c *Coordinator) startSpan(ctx context.Context, mode string, ids []int, timeout time.Duration) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, nil
	}
	ctx, span := c.tracer.StartSpan(ctx, sqlsyntax.LockTableName+"."+mode)
	attrs := map[string]interface{}{
		"db.system":  c.provider.ProviderName(),
		"lock.mode":  mode,
		"lock.ids":   ids,
		"lock.table": sqlsyntax.LockTableName,
	}
	if timeout > 0 {
		attrs["lock.timeout_ms"] = timeout.Milliseconds()
	}
	c.tracer.SetAttributes(span, attrs)
	return ctx, span
}

func (c *Coordinator) recordError(span trace.Span, err error) {
	if span != nil {
		c.tracer.RecordErrorOnSpan(span, err)
	}
}

// FailureReason maps a lock error to the reason label used in metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, sqlsyntax.ErrLockTimeout):
		return ReasonTimeout
	case errors.Is(err, sqlsyntax.ErrDeadlock):
		return ReasonDeadlock
	case errors.Is(err, sqlsyntax.ErrLockNotFound):
		return ReasonNotFound
	case errors.Is(err, sqlsyntax.ErrIsolationLevel):
		return ReasonIsolation
	default:
		return ReasonError
	}
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
