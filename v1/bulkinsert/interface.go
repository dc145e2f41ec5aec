package bulkinsert

import (
	"context"
	"database/sql"
)

// Preparer is implemented by *sql.DB, *sql.Tx and *sql.Conn. The copy-based
// strategies need a transaction on most drivers, so pass a *sql.Tx.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Inserter writes many rows into one table.
type Inserter interface {
	// BulkInsert inserts rows, each holding one value per entry of columns,
	// and returns the number of rows written. Empty rows is a no-op.
	BulkInsert(ctx context.Context, p Preparer, table string, columns []string, rows [][]any) (int64, error)
}

// Dialect is the part of a syntax provider the basic strategy needs.
type Dialect interface {
	QuoteTableName(name string) string
	QuoteColumnName(name string) string
	Placeholder(n int) string
}
