package bulkinsert

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
)

var (
	tagColumns = []string{"tag", "group"}
	tagRows    = [][]any{
		{"news", "default"},
		{"events", "default"},
	}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestEmptyRowsIsNoop(t *testing.T) {
	ctx := context.Background()
	pg, err := sqlsyntax.NewPostgreSQL()
	require.NoError(t, err)

	for _, ins := range []Inserter{NewSQLServer(), NewPostgreSQL(), NewBasic(pg)} {
		db, mock := newMock(t)
		n, err := ins.BulkInsert(ctx, db, "cmsTags", tagColumns, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	db, _ := newMock(t)

	_, err := NewPostgreSQL().BulkInsert(ctx, db, "cmsTags", nil, tagRows)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = NewSQLServer().BulkInsert(ctx, db, "cmsTags", tagColumns, [][]any{{"only-one"}})
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestPostgreSQLCopy(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)

	prep := mock.ExpectPrepare(pq.CopyIn("cmsTags", tagColumns...))
	prep.ExpectExec().WithArgs("news", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WithArgs("events", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewPostgreSQL().BulkInsert(ctx, db, "cmsTags", tagColumns, tagRows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLServerCopy(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)

	prep := mock.ExpectPrepare(mssql.CopyIn("cmsTags", mssql.BulkOptions{}, tagColumns...))
	prep.ExpectExec().WithArgs("news", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WithArgs("events", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))

	// Row count falls back to the number of rows sent when the driver reports none.
	n, err := NewSQLServer().BulkInsert(ctx, db, "cmsTags", tagColumns, tagRows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFlushFailure(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)

	prep := mock.ExpectPrepare(pq.CopyIn("cmsTags", tagColumns...))
	prep.ExpectExec().WithArgs("news", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WithArgs("events", "default").WillReturnResult(sqlmock.NewResult(0, 0))
	prep.ExpectExec().WillReturnError(errors.New("duplicate key value violates unique constraint"))

	_, err := NewPostgreSQL().BulkInsert(ctx, db, "cmsTags", tagColumns, tagRows)
	assert.ErrorContains(t, err, "failed to flush bulk copy into cmsTags")
}

func TestBasicInsert(t *testing.T) {
	ctx := context.Background()
	ms, err := sqlsyntax.NewSQLServer()
	require.NoError(t, err)

	db, mock := newMock(t)
	prep := mock.ExpectPrepare("INSERT INTO [cmsTags] ([tag], [group]) VALUES (@p1, @p2)")
	prep.ExpectExec().WithArgs("news", "default").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("events", "default").WillReturnResult(sqlmock.NewResult(2, 1))

	n, err := NewBasic(ms).BulkInsert(ctx, db, "cmsTags", tagColumns, tagRows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasicInsertStopsOnError(t *testing.T) {
	ctx := context.Background()
	pg, err := sqlsyntax.NewPostgreSQL()
	require.NoError(t, err)

	db, mock := newMock(t)
	prep := mock.ExpectPrepare(`INSERT INTO "cmsTags" ("tag", "group") VALUES ($1, $2)`)
	prep.ExpectExec().WithArgs("news", "default").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("events", "default").WillReturnError(errors.New("value too long"))

	n, err := NewBasic(pg).BulkInsert(ctx, db, "cmsTags", tagColumns, tagRows)
	assert.ErrorContains(t, err, "failed to insert row 1 into cmsTags")
	assert.Equal(t, int64(1), n)
}
