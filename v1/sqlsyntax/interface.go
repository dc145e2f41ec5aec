package sqlsyntax

import (
	"context"
	"database/sql"
	"time"
)

// TypeMapper maps portable type codes to engine keywords.
type TypeMapper interface {
	// ColumnType returns the native type for a logical type. Every provider
	// maps all of LogicalTypes.
	ColumnType(t LogicalType) (string, error)
	SpecialDBType(t SpecialDBType) (string, error)
	IndexType(t IndexType) (string, error)
}

// Quoter wraps identifiers in the engine's delimiters.
type Quoter interface {
	QuoteTableName(name string) string
	QuoteColumnName(name string) string
	QuoteName(name string) string
}

// Formatter renders DDL and query fragments.
type Formatter interface {
	FormatColumnRename(table, oldName, newName string) string
	FormatTableRename(oldName, newName string) string

	// FormatPrimaryKey returns the ADD CONSTRAINT statement for the table's
	// primary key, or "" when no column is marked as primary key.
	FormatPrimaryKey(table TableDefinition) string
	FormatIdentity(column ColumnDefinition) string
	FormatColumn(column ColumnDefinition) (string, error)
	FormatCreateTable(table TableDefinition) (string, error)
	FormatDeleteDefaultConstraint(table, column, constraint string) string
	FormatDropIndex(table, index string) string
	StringColumnEqualComparison(column string, paramIndex int, t TextColumnType) (string, error)

	// SystemMethod returns false when the engine has no equivalent function.
	SystemMethod(m SystemMethod) (string, bool)
	SelectTop(query string, n int) string

	// Placeholder returns the native bind parameter for the 1-based index n.
	Placeholder(n int) string
	SupportsClustered() bool
	SupportsIdentityInsert() bool
}

// Introspector runs read-only catalog queries scoped to the current schema.
type Introspector interface {
	ListTables(ctx context.Context, db Database) ([]string, error)
	ListColumns(ctx context.Context, db Database) ([]ColumnInfo, error)
	ListConstraintsPerTable(ctx context.Context, db Database) ([]ConstraintInfo, error)
	ListConstraintsPerColumn(ctx context.Context, db Database) ([]ConstraintInfo, error)
	ListIndexes(ctx context.Context, db Database) ([]IndexInfo, error)
	TableExists(ctx context.Context, db Database, table string) (bool, error)

	// TryGetDefaultConstraint returns the default constraint name of a column.
	// A column without a default yields ("", false, nil); a failed lookup is
	// returned as an error.
	TryGetDefaultConstraint(ctx context.Context, db Database, table, column string) (string, bool, error)
	CurrentIsolationLevel(ctx context.Context, db Database) (sql.IsolationLevel, error)
}

// Locker acquires row locks on the lock table inside the caller's transaction.
// There is no unlock: locks are released when the transaction ends.
type Locker interface {
	// WriteLock flips the value of each lock row in the given order. A zero
	// timeout means DefaultLockTimeout.
	WriteLock(ctx context.Context, db Database, timeout time.Duration, ids ...int) error
	ReadLock(ctx context.Context, db Database, ids ...int) error
}

// Provider is the full dialect surface of one database engine.
// Implementations are immutable and safe for concurrent use.
type Provider interface {
	TypeMapper
	Quoter
	Formatter
	Introspector
	Locker

	ProviderName() string
	DefaultIsolationLevel() sql.IsolationLevel
}
