package locking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
	"github.com/rasmusjp/Umbraco-CMS/v1/database"
	"github.com/rasmusjp/Umbraco-CMS/v1/dbprovider"
	"github.com/rasmusjp/Umbraco-CMS/v1/logger"
	"github.com/rasmusjp/Umbraco-CMS/v1/metrics"
	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
	"github.com/rasmusjp/Umbraco-CMS/v1/tracer"
)

const (
	pgSetTimeout = `SET LOCAL lock_timeout = 1800`
	pgFlip       = `UPDATE "umbracoLock" SET value = (CASE WHEN (value=1) THEN -1 ELSE 1 END) WHERE id=$1`
	pgRead       = `SELECT value FROM "umbracoLock" WHERE id=$1 FOR SHARE`
	pgTouch      = `UPDATE "umbracoNode" SET trashed = true WHERE id = $1`
)

type fixture struct {
	coordinator *Coordinator
	mock        sqlmock.Sqlmock
	metrics     *metrics.Metrics
	spans       *tracetest.SpanRecorder
	logs        *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := sqlsyntax.NewPostgreSQL()
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	spans := tracetest.NewSpanRecorder()
	tr := tracer.NewClientWithOptions(tracer.Config{ServiceName: "cms"}, log, sdktrace.WithSpanProcessor(spans))

	m := metrics.NewMetrics(metrics.Config{Namespace: "cms", ServiceName: "test"})

	c, err := NewCoordinator(provider, db, log, WithMetrics(m), WithTracer(tr))
	require.NoError(t, err)

	return &fixture{
		coordinator: c,
		mock:        mock,
		metrics:     m,
		spans:       spans,
		logs:        logs,
	}
}

func touchNode(ctx context.Context, db sqlsyntax.Database) error {
	_, err := db.Exec(ctx, pgTouch, 1061)
	return err
}

func TestWithWriteLockCommits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	for _, id := range []int{sqlsyntax.LockContentTree, sqlsyntax.LockMediaTree} {
		f.mock.ExpectExec(pgSetTimeout).WillReturnResult(sqlmock.NewResult(0, 0))
		f.mock.ExpectExec(pgFlip).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	f.mock.ExpectExec(pgTouch).WithArgs(1061).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	err := f.coordinator.WithWriteLock(ctx, []int{sqlsyntax.LockContentTree, sqlsyntax.LockMediaTree}, 0, touchNode)
	require.NoError(t, err)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	expected := `
# HELP cms_lock_acquisitions_total Total number of lock acquisitions on the lock table
# TYPE cms_lock_acquisitions_total counter
cms_lock_acquisitions_total{mode="write",provider="PostgreSql",service="test"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Registry, strings.NewReader(expected), "cms_lock_acquisitions_total"))

	spans := f.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "umbracoLock.write", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, 1, f.logs.FilterMessage("lock acquired").Len())
}

func TestWithWriteLockRollsBackOnCallbackError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("content validation failed")

	f.mock.ExpectBegin()
	f.mock.ExpectExec(pgSetTimeout).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(pgFlip).WithArgs(sqlsyntax.LockContentTree).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectRollback()

	err := f.coordinator.WithWriteLock(ctx, []int{sqlsyntax.LockContentTree}, 0, func(context.Context, sqlsyntax.Database) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	spans := f.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestWithWriteLockMissingRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectExec(pgSetTimeout).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(pgFlip).WithArgs(999).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	called := false
	err := f.coordinator.WithWriteLock(ctx, []int{999}, 0, func(context.Context, sqlsyntax.Database) error {
		called = true
		return nil
	})

	var notFound *sqlsyntax.LockNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 999, notFound.LockID)
	assert.False(t, called)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	expected := `
# HELP cms_lock_failures_total Total number of failed lock acquisitions by reason
# TYPE cms_lock_failures_total counter
cms_lock_failures_total{mode="write",provider="PostgreSql",reason="not_found",service="test"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Registry, strings.NewReader(expected), "cms_lock_failures_total"))

	warnings := f.logs.FilterMessage("failed to acquire lock").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, ReasonNotFound, warnings[0].ContextMap()["reason"])
}

func TestWithWriteLockTimeoutIsNotRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectExec(`SET LOCAL lock_timeout = 50`).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(pgFlip).WithArgs(sqlsyntax.LockServers).WillReturnError(&pgconn.PgError{Code: "55P03"})
	f.mock.ExpectRollback()

	err := f.coordinator.WithWriteLock(ctx, []int{sqlsyntax.LockServers}, 50*time.Millisecond, touchNode)
	assert.ErrorIs(t, err, sqlsyntax.ErrLockTimeout)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	expected := `
# HELP cms_lock_failures_total Total number of failed lock acquisitions by reason
# TYPE cms_lock_failures_total counter
cms_lock_failures_total{mode="write",provider="PostgreSql",reason="timeout",service="test"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.metrics.Registry, strings.NewReader(expected), "cms_lock_failures_total"))
}

func TestWithReadLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(pgRead).WithArgs(sqlsyntax.LockLanguages).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	f.mock.ExpectCommit()

	var seen sql.IsolationLevel
	err := f.coordinator.WithReadLock(ctx, []int{sqlsyntax.LockLanguages}, func(_ context.Context, db sqlsyntax.Database) error {
		seen = db.IsolationLevel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, sql.LevelReadCommitted, seen)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	spans := f.spans.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "umbracoLock.read", spans[0].Name())
}

func TestBeginAndCommitFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("begin", func(t *testing.T) {
		f := newFixture(t)
		f.mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := f.coordinator.WithReadLock(ctx, []int{sqlsyntax.LockDomains}, touchNode)
		assert.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		f := newFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectQuery(pgRead).WithArgs(sqlsyntax.LockDomains).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(-1)))
		f.mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		err := f.coordinator.WithReadLock(ctx, []int{sqlsyntax.LockDomains}, func(context.Context, sqlsyntax.Database) error { return nil })
		assert.ErrorContains(t, err, "failed to commit lock transaction")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})
}

func TestPanicRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(pgRead).WithArgs(sqlsyntax.LockKeyValues).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	f.mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = f.coordinator.WithReadLock(ctx, []int{sqlsyntax.LockKeyValues}, func(context.Context, sqlsyntax.Database) error {
			panic("boom")
		})
	})
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCoordinatorWithoutMetricsOrTracer(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	provider, err := sqlsyntax.NewSQLServer()
	require.NoError(t, err)
	c, err := NewCoordinator(provider, db, logger.NewFromZap(zap.NewNop()))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCK_TIMEOUT 1800;`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE [umbracoLock] WITH (REPEATABLEREAD) SET value = (CASE WHEN (value=1) THEN -1 ELSE 1 END) WHERE id=@p1`).
		WithArgs(sqlsyntax.LockMainDom).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET LOCK_TIMEOUT -1;`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, c.WithWriteLock(context.Background(), []int{sqlsyntax.LockMainDom}, 0, func(context.Context, sqlsyntax.Database) error { return nil }))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewCoordinatorRequiresCollaborators(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	provider, err := sqlsyntax.NewPostgreSQL()
	require.NoError(t, err)
	log := logger.NewFromZap(zap.NewNop())

	tests := []struct {
		name     string
		provider sqlsyntax.Provider
		db       *sql.DB
		log      Logger
		expected error
	}{
		{name: "provider", db: db, log: log, expected: ErrNilProvider},
		{name: "database", provider: provider, log: log, expected: ErrNilDatabase},
		{name: "logger", provider: provider, db: db, expected: ErrNilLogger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinator(tt.provider, tt.db, tt.log)
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, c)
		})
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{err: &sqlsyntax.LockAcquisitionError{LockID: 1, Reason: sqlsyntax.ErrLockTimeout}, expected: ReasonTimeout},
		{err: &sqlsyntax.LockAcquisitionError{LockID: 1, Reason: sqlsyntax.ErrDeadlock}, expected: ReasonDeadlock},
		{err: &sqlsyntax.LockNotFoundError{LockID: 1}, expected: ReasonNotFound},
		{err: &sqlsyntax.IsolationLevelError{Provider: dbprovider.PostgreSQL, Level: sql.LevelReadUncommitted}, expected: ReasonIsolation},
		{err: errors.New("broken pipe"), expected: ReasonError},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FailureReason(tt.err))
		})
	}
}

func TestFXModule(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var c *Coordinator
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() *logger.Logger { return logger.NewFromZap(zap.NewNop()) },
			func(log *logger.Logger) (*database.Factory, error) { return database.NewDefaultFactory(log) },
		),
		fx.Supply(
			connstring.Descriptor{Name: "umbracoDbDSN", ProviderName: dbprovider.PostgreSQL},
			db,
		),
		fx.Populate(&c),
	)
	require.NoError(t, app.Err())
	require.NotNil(t, c)
	assert.Equal(t, dbprovider.PostgreSQL, c.provider.ProviderName())
	assert.Nil(t, c.metrics)
	assert.Nil(t, c.tracer)
}
