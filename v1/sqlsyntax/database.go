package sqlsyntax

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

//go:generate mockgen -source=database.go -destination=mock_database_test.go -package=sqlsyntax

// Database is the minimal handle a provider needs: run a statement, fetch rows
// and report the isolation level of the surrounding transaction.
type Database interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Query runs a statement returning rows. The caller closes the rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// IsolationLevel returns the declared isolation level of the current
	// transaction, or sql.LevelDefault when it is not known up front.
	IsolationLevel() sql.IsolationLevel
}

// ExecQuerier is implemented by *sql.DB, *sql.Tx, *sql.Conn and gorm's connection pools.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlDatabase struct {
	conn  ExecQuerier
	level sql.IsolationLevel
}

// NewDatabase wraps conn. Pass the isolation level the transaction was opened
// with, or sql.LevelDefault to let providers ask the engine.
func NewDatabase(conn ExecQuerier, level sql.IsolationLevel) Database {
	return &sqlDatabase{conn: conn, level: level}
}

// FromGorm wraps the connection of a gorm handle, typically the *gorm.DB
// handed to a gorm Transaction callback. Statements bypass gorm's clause
// builder, so queries must use the driver's native placeholders.
func FromGorm(tx *gorm.DB, level sql.IsolationLevel) (Database, error) {
	if tx == nil || tx.Statement == nil || tx.Statement.ConnPool == nil {
		return nil, fmt.Errorf("gorm handle has no connection pool")
	}
	return NewDatabase(tx.Statement.ConnPool, level), nil
}

func (d *sqlDatabase) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

func (d *sqlDatabase) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.conn.QueryContext(ctx, query, args...)
}

func (d *sqlDatabase) IsolationLevel() sql.IsolationLevel {
	return d.level
}
