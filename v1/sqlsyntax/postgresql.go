package sqlsyntax

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/rasmusjp/Umbraco-CMS/v1/dbprovider"
)

// SQLSTATE codes raised while waiting for a lock.
const (
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

// pgDefaultNamePrefix names defaults, which PostgreSQL does not name itself.
const pgDefaultNamePrefix = "DF_"

const (
	pgListTables = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`

	pgListColumns = `SELECT table_name, column_name, ordinal_position, column_default, is_nullable, data_type ` +
		`FROM information_schema.columns WHERE table_schema = current_schema()`

	pgListTableConstraints = `SELECT table_name, constraint_name FROM information_schema.constraint_table_usage ` +
		`WHERE table_schema = current_schema()`

	pgListColumnConstraints = `SELECT table_name, column_name, constraint_name FROM information_schema.constraint_column_usage ` +
		`WHERE table_schema = current_schema()`

	pgListIndexes = `SELECT t.relname AS table_name, i.relname AS index_name, a.attname AS column_name, ix.indisunique ` +
		`FROM pg_class t ` +
		`INNER JOIN pg_index ix ON t.oid = ix.indrelid ` +
		`INNER JOIN pg_class i ON i.oid = ix.indexrelid ` +
		`INNER JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey) ` +
		`INNER JOIN pg_namespace n ON n.oid = t.relnamespace ` +
		`WHERE t.relkind = 'r' AND NOT ix.indisprimary AND n.nspname = current_schema() ` +
		`ORDER BY t.relname, i.relname, a.attnum`

	pgTableExists = `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1 AND table_schema = current_schema()`

	pgColumnDefault = `SELECT column_default FROM information_schema.columns ` +
		`WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`

	pgIsolationLevel = `SHOW transaction_isolation`
)

// PostgreSQL is the dialect provider for PostgreSQL.
type PostgreSQL struct {
	syntaxBase
	locks lockStatements
}

var _ Provider = (*PostgreSQL)(nil)

// NewPostgreSQL returns the PostgreSQL provider.
func NewPostgreSQL() (*PostgreSQL, error) {
	base, err := newSyntaxBase(dialect{
		name:       dbprovider.PostgreSQL,
		openQuote:  `"`,
		closeQuote: `"`,
		columnTypes: map[LogicalType]string{
			TypeString:      "text",
			TypeFixedString: "text",
			TypeBoolean:     "boolean",
			TypeGUID:        "uuid",
			TypeDateTime:    "timestamp without time zone",
			TypeTimeSpan:    "time without time zone",
			TypeInt32:       "integer",
			TypeInt64:       "bigint",
		},
		specialTypes: map[SpecialDBType]string{
			NText: "text",
			NChar: "character",
		},
		indexTypes: map[IndexType]string{
			IndexClustered:          "",
			IndexNonClustered:       "",
			IndexUniqueNonClustered: "UNIQUE",
		},
		systemMethods: map[SystemMethod]string{
			NewGUID:            "uuid_generate_v4()",
			CurrentDateTime:    "NOW()",
			CurrentUTCDateTime: "(NOW() AT TIME ZONE 'utc')",
		},
		identity:          "GENERATED BY DEFAULT AS IDENTITY",
		primaryKeyKeyword: func(ColumnDefinition) string { return "PRIMARY KEY" },
		placeholder:       func(n int) string { return "$" + strconv.Itoa(n) },
	})
	if err != nil {
		return nil, err
	}

	p := &PostgreSQL{syntaxBase: base}
	table := p.QuoteTableName(LockTableName)
	p.locks = lockStatements{
		setTimeout: func(timeout time.Duration) string {
			return fmt.Sprintf("SET LOCAL lock_timeout = %d", timeout.Milliseconds())
		},
		flip:     "UPDATE " + table + " SET value = (CASE WHEN (value=1) THEN -1 ELSE 1 END) WHERE id=$1",
		read:     "SELECT value FROM " + table + " WHERE id=$1 FOR SHARE",
		classify: classifyPostgresError,
	}
	return p, nil
}

func classifyPostgresError(err error) error {
	var code string
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}

	switch code {
	case pgLockNotAvailable:
		return ErrLockTimeout
	case pgDeadlockDetected:
		return ErrDeadlock
	}
	return nil
}

func (p *PostgreSQL) FormatColumnRename(table, oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		p.QuoteTableName(table), p.QuoteColumnName(oldName), p.QuoteColumnName(newName))
}

func (p *PostgreSQL) FormatTableRename(oldName, newName string) string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", p.QuoteTableName(oldName), p.QuoteTableName(newName))
}

// FormatDeleteDefaultConstraint drops the column default. PostgreSQL defaults
// have no name, so constraint is ignored.
func (p *PostgreSQL) FormatDeleteDefaultConstraint(table, column, _ string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", p.QuoteTableName(table), p.QuoteColumnName(column))
}

func (p *PostgreSQL) FormatDropIndex(_, index string) string {
	return "DROP INDEX " + p.QuoteName(index)
}

func (p *PostgreSQL) StringColumnEqualComparison(column string, paramIndex int, t TextColumnType) (string, error) {
	col := p.QuoteColumnName(column)
	param := p.Placeholder(paramIndex)
	switch t {
	case TextNVarchar:
		return "upper(" + col + ") = upper(" + param + ")", nil
	case TextNText:
		return col + " ILIKE " + param, nil
	}
	return "", p.unsupported("text column type " + t.String())
}

func (p *PostgreSQL) SelectTop(query string, n int) string {
	return query + " LIMIT " + strconv.Itoa(n)
}

func (p *PostgreSQL) SupportsClustered() bool      { return false }
func (p *PostgreSQL) SupportsIdentityInsert() bool { return false }

func (p *PostgreSQL) ListTables(ctx context.Context, db Database) ([]string, error) {
	tables, err := queryStrings(ctx, db, pgListTables)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (p *PostgreSQL) ListColumns(ctx context.Context, db Database) ([]ColumnInfo, error) {
	cols, err := queryColumns(ctx, db, pgListColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return cols, nil
}

func (p *PostgreSQL) ListConstraintsPerTable(ctx context.Context, db Database) ([]ConstraintInfo, error) {
	cons, err := queryTableConstraints(ctx, db, pgListTableConstraints)
	if err != nil {
		return nil, fmt.Errorf("failed to list table constraints: %w", err)
	}
	return cons, nil
}

func (p *PostgreSQL) ListConstraintsPerColumn(ctx context.Context, db Database) ([]ConstraintInfo, error) {
	cons, err := queryColumnConstraints(ctx, db, pgListColumnConstraints)
	if err != nil {
		return nil, fmt.Errorf("failed to list column constraints: %w", err)
	}
	return cons, nil
}

func (p *PostgreSQL) ListIndexes(ctx context.Context, db Database) ([]IndexInfo, error) {
	idx, err := queryIndexes(ctx, db, pgListIndexes)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	return idx, nil
}

func (p *PostgreSQL) TableExists(ctx context.Context, db Database, table string) (bool, error) {
	ok, err := queryExists(ctx, db, pgTableExists, table)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return ok, nil
}

// TryGetDefaultConstraint reports DF_<table>_<column> when the column has a default.
func (p *PostgreSQL) TryGetDefaultConstraint(ctx context.Context, db Database, table, column string) (string, bool, error) {
	rows, err := db.Query(ctx, pgColumnDefault, table, column)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up default of %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, fmt.Errorf("failed to look up default of %s.%s: %w", table, column, err)
		}
		return "", false, nil
	}
	var def sql.NullString
	if err := rows.Scan(&def); err != nil {
		return "", false, fmt.Errorf("failed to read default of %s.%s: %w", table, column, err)
	}
	if !def.Valid || def.String == "" {
		return "", false, nil
	}
	return pgDefaultNamePrefix + table + "_" + column, true, nil
}

func (p *PostgreSQL) CurrentIsolationLevel(ctx context.Context, db Database) (sql.IsolationLevel, error) {
	levels, err := queryStrings(ctx, db, pgIsolationLevel)
	if err != nil {
		return sql.LevelDefault, err
	}
	if len(levels) == 0 {
		return sql.LevelDefault, fmt.Errorf("transaction_isolation returned no rows")
	}

	switch strings.ToLower(strings.TrimSpace(levels[0])) {
	case "read uncommitted":
		return sql.LevelReadUncommitted, nil
	case "read committed":
		return sql.LevelReadCommitted, nil
	case "repeatable read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, nil
}

func (p *PostgreSQL) WriteLock(ctx context.Context, db Database, timeout time.Duration, ids ...int) error {
	return writeLock(ctx, db, p, p.locks, timeout, ids)
}

func (p *PostgreSQL) ReadLock(ctx context.Context, db Database, ids ...int) error {
	return readLock(ctx, db, p, p.locks, ids)
}
