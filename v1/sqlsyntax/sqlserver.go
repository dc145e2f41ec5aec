package sqlsyntax

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/rasmusjp/Umbraco-CMS/v1/dbprovider"
)

// SQL Server error numbers raised while waiting for a lock.
const (
	mssqlLockTimeout = 1222
	mssqlDeadlock    = 1205
)

const (
	mssqlListTables = `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = (SELECT SCHEMA_NAME())`

	mssqlListColumns = `SELECT TABLE_NAME, COLUMN_NAME, ORDINAL_POSITION, COLUMN_DEFAULT, IS_NULLABLE, DATA_TYPE ` +
		`FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = (SELECT SCHEMA_NAME())`

	mssqlListTableConstraints = `SELECT TABLE_NAME, CONSTRAINT_NAME FROM INFORMATION_SCHEMA.CONSTRAINT_TABLE_USAGE ` +
		`WHERE TABLE_SCHEMA = (SELECT SCHEMA_NAME())`

	mssqlListColumnConstraints = `SELECT TABLE_NAME, COLUMN_NAME, CONSTRAINT_NAME FROM INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE ` +
		`WHERE TABLE_SCHEMA = (SELECT SCHEMA_NAME())`

	mssqlListIndexes = `SELECT t.name AS TableName, ind.name AS IndexName, col.name AS ColumnName, ind.is_unique AS IsUnique ` +
		`FROM sys.indexes ind ` +
		`INNER JOIN sys.index_columns ic ON ind.object_id = ic.object_id AND ind.index_id = ic.index_id ` +
		`INNER JOIN sys.columns col ON ic.object_id = col.object_id AND ic.column_id = col.column_id ` +
		`INNER JOIN sys.tables t ON ind.object_id = t.object_id ` +
		`WHERE ind.is_primary_key = 0 AND ind.is_unique_constraint = 0 AND t.is_ms_shipped = 0 AND t.schema_id = SCHEMA_ID() ` +
		`ORDER BY t.name, ind.name, ic.key_ordinal`

	mssqlTableExists = `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = @p1 AND TABLE_SCHEMA = (SELECT SCHEMA_NAME())`

	mssqlDefaultConstraint = `SELECT con.name FROM sys.default_constraints con ` +
		`INNER JOIN sys.columns col ON con.object_id = col.default_object_id ` +
		`INNER JOIN sys.tables tbl ON col.object_id = tbl.object_id ` +
		`WHERE tbl.name = @p1 AND col.name = @p2 AND tbl.schema_id = SCHEMA_ID()`

	mssqlIsolationLevel = `SELECT transaction_isolation_level FROM sys.dm_exec_sessions WHERE session_id = @@SPID`
)

// SQLServer is the dialect provider for Microsoft SQL Server.
type SQLServer struct {
	syntaxBase
	locks lockStatements
}

var _ Provider = (*SQLServer)(nil)

// NewSQLServer returns the SQL Server provider.
func NewSQLServer() (*SQLServer, error) {
	base, err := newSyntaxBase(dialect{
		name:       dbprovider.SQLServer,
		openQuote:  "[",
		closeQuote: "]",
		columnTypes: map[LogicalType]string{
			TypeString:      "NVARCHAR(255)",
			TypeFixedString: "NCHAR(1)",
			TypeBoolean:     "BIT",
			TypeGUID:        "UNIQUEIDENTIFIER",
			TypeDateTime:    "DATETIME",
			TypeTimeSpan:    "TIME",
			TypeInt32:       "INT",
			TypeInt64:       "BIGINT",
		},
		specialTypes: map[SpecialDBType]string{
			NText:       "NTEXT",
			NChar:       "NCHAR",
			NVarcharMax: "NVARCHAR(MAX)",
		},
		indexTypes: map[IndexType]string{
			IndexClustered:          "CLUSTERED",
			IndexNonClustered:       "NONCLUSTERED",
			IndexUniqueNonClustered: "UNIQUE NONCLUSTERED",
		},
		systemMethods: map[SystemMethod]string{
			NewGUID:            "NEWID()",
			CurrentDateTime:    "GETDATE()",
			NewSequentialID:    "NEWSEQUENTIALID()",
			CurrentUTCDateTime: "GETUTCDATE()",
		},
		sizedString: func(size int) string { return fmt.Sprintf("NVARCHAR(%d)", size) },
		identity:    "IDENTITY(1,1)",
		primaryKeyKeyword: func(col ColumnDefinition) string {
			if col.PrimaryKeyNonClustered {
				return "PRIMARY KEY NONCLUSTERED"
			}
			return "PRIMARY KEY CLUSTERED"
		},
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
	})
	if err != nil {
		return nil, err
	}

	p := &SQLServer{syntaxBase: base}
	table := p.QuoteTableName(LockTableName)
	p.locks = lockStatements{
		setTimeout: func(timeout time.Duration) string {
			return fmt.Sprintf("SET LOCK_TIMEOUT %d;", timeout.Milliseconds())
		},
		// LOCK_TIMEOUT is session scoped and would outlive the transaction on a pooled connection.
		resetTimeout: "SET LOCK_TIMEOUT -1;",
		flip:         "UPDATE " + table + " WITH (REPEATABLEREAD) SET value = (CASE WHEN (value=1) THEN -1 ELSE 1 END) WHERE id=@p1",
		read:         "SELECT value FROM " + table + " WITH (REPEATABLEREAD) WHERE id=@p1",
		classify:     classifyMSSQLError,
	}
	return p, nil
}

func classifyMSSQLError(err error) error {
	var msErr mssql.Error
	if !errors.As(err, &msErr) {
		return nil
	}
	switch msErr.Number {
	case mssqlLockTimeout:
		return ErrLockTimeout
	case mssqlDeadlock:
		return ErrDeadlock
	}
	return nil
}

// nstring renders s as an N'...' literal.
func nstring(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (p *SQLServer) FormatColumnRename(table, oldName, newName string) string {
	return fmt.Sprintf("EXEC sp_rename %s, %s, 'COLUMN'",
		nstring(p.QuoteTableName(table)+"."+p.QuoteColumnName(oldName)), nstring(newName))
}

func (p *SQLServer) FormatTableRename(oldName, newName string) string {
	return fmt.Sprintf("EXEC sp_rename %s, %s", nstring(p.QuoteTableName(oldName)), nstring(newName))
}

func (p *SQLServer) FormatDeleteDefaultConstraint(table, _, constraint string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", p.QuoteTableName(table), p.QuoteName(constraint))
}

func (p *SQLServer) FormatDropIndex(table, index string) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", p.QuoteName(index), p.QuoteTableName(table))
}

func (p *SQLServer) StringColumnEqualComparison(column string, paramIndex int, t TextColumnType) (string, error) {
	col := p.QuoteColumnName(column)
	param := p.Placeholder(paramIndex)
	switch t {
	case TextNVarchar:
		return "upper(" + col + ") = upper(" + param + ")", nil
	case TextNText:
		return col + " LIKE " + param, nil
	}
	return "", p.unsupported("text column type " + t.String())
}

// SelectTop inserts TOP n after the first word of query. A query without a
// space gets TOP n appended.
func (p *SQLServer) SelectTop(query string, n int) string {
	top := " TOP " + strconv.Itoa(n)
	i := strings.IndexByte(query, ' ')
	if i < 0 {
		return query + top
	}
	return query[:i] + top + query[i:]
}

func (p *SQLServer) SupportsClustered() bool      { return true }
func (p *SQLServer) SupportsIdentityInsert() bool { return true }

func (p *SQLServer) ListTables(ctx context.Context, db Database) ([]string, error) {
	tables, err := queryStrings(ctx, db, mssqlListTables)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (p *SQLServer) ListColumns(ctx context.Context, db Database) ([]ColumnInfo, error) {
	cols, err := queryColumns(ctx, db, mssqlListColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return cols, nil
}

func (p *SQLServer) ListConstraintsPerTable(ctx context.Context, db Database) ([]ConstraintInfo, error) {
	cons, err := queryTableConstraints(ctx, db, mssqlListTableConstraints)
	if err != nil {
		return nil, fmt.Errorf("failed to list table constraints: %w", err)
	}
	return cons, nil
}

func (p *SQLServer) ListConstraintsPerColumn(ctx context.Context, db Database) ([]ConstraintInfo, error) {
	cons, err := queryColumnConstraints(ctx, db, mssqlListColumnConstraints)
	if err != nil {
		return nil, fmt.Errorf("failed to list column constraints: %w", err)
	}
	return cons, nil
}

func (p *SQLServer) ListIndexes(ctx context.Context, db Database) ([]IndexInfo, error) {
	idx, err := queryIndexes(ctx, db, mssqlListIndexes)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	return idx, nil
}

func (p *SQLServer) TableExists(ctx context.Context, db Database, table string) (bool, error) {
	ok, err := queryExists(ctx, db, mssqlTableExists, table)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return ok, nil
}

func (p *SQLServer) TryGetDefaultConstraint(ctx context.Context, db Database, table, column string) (string, bool, error) {
	names, err := queryStrings(ctx, db, mssqlDefaultConstraint, table, column)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up default constraint of %s.%s: %w", table, column, err)
	}
	if len(names) == 0 || names[0] == "" {
		return "", false, nil
	}
	return names[0], true, nil
}

func (p *SQLServer) CurrentIsolationLevel(ctx context.Context, db Database) (sql.IsolationLevel, error) {
	rows, err := db.Query(ctx, mssqlIsolationLevel)
	if err != nil {
		return sql.LevelDefault, err
	}
	defer rows.Close()

	var level int
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return sql.LevelDefault, err
		}
		return sql.LevelDefault, fmt.Errorf("no session row for the current connection")
	}
	if err := rows.Scan(&level); err != nil {
		return sql.LevelDefault, err
	}

	switch level {
	case 1:
		return sql.LevelReadUncommitted, nil
	case 2:
		return sql.LevelReadCommitted, nil
	case 3:
		return sql.LevelRepeatableRead, nil
	case 4:
		return sql.LevelSerializable, nil
	case 5:
		return sql.LevelSnapshot, nil
	}
	return sql.LevelDefault, rows.Err()
}

func (p *SQLServer) WriteLock(ctx context.Context, db Database, timeout time.Duration, ids ...int) error {
	return writeLock(ctx, db, p, p.locks, timeout, ids)
}

func (p *SQLServer) ReadLock(ctx context.Context, db Database, ids ...int) error {
	return readLock(ctx, db, p, p.locks, ids)
}
