package sqlsyntax

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dialect holds the tables and hooks that differ between engines. The shared
// behaviour lives on syntaxBase and is embedded by each provider.
type dialect struct {
	name       string
	openQuote  string
	closeQuote string

	columnTypes   map[LogicalType]string
	specialTypes  map[SpecialDBType]string
	indexTypes    map[IndexType]string
	systemMethods map[SystemMethod]string

	// sizedString renders a string column of explicit length. Nil ignores Size.
	sizedString func(size int) string

	identity          string
	primaryKeyKeyword func(col ColumnDefinition) string
	placeholder       func(n int) string
}

type syntaxBase struct {
	d dialect
}

func newSyntaxBase(d dialect) (syntaxBase, error) {
	var missing []string
	for _, t := range LogicalTypes {
		if _, ok := d.columnTypes[t]; !ok {
			missing = append(missing, t.String())
		}
	}
	if len(missing) > 0 {
		return syntaxBase{}, fmt.Errorf("%s: %w: missing %s", d.name, ErrIncompleteTypeMap, strings.Join(missing, ", "))
	}
	return syntaxBase{d: d}, nil
}

func (b syntaxBase) ProviderName() string {
	return b.d.name
}

// DefaultIsolationLevel is ReadCommitted on every supported engine.
func (b syntaxBase) DefaultIsolationLevel() sql.IsolationLevel {
	return sql.LevelReadCommitted
}

func (b syntaxBase) unsupported(feature string) error {
	return &UnsupportedFeatureError{Provider: b.d.name, Feature: feature}
}

func (b syntaxBase) QuoteName(name string) string {
	return b.d.openQuote + strings.ReplaceAll(name, b.d.closeQuote, b.d.closeQuote+b.d.closeQuote) + b.d.closeQuote
}

func (b syntaxBase) QuoteTableName(name string) string {
	return b.QuoteName(name)
}

func (b syntaxBase) QuoteColumnName(name string) string {
	return b.QuoteName(name)
}

func (b syntaxBase) ColumnType(t LogicalType) (string, error) {
	if s, ok := b.d.columnTypes[t]; ok {
		return s, nil
	}
	return "", b.unsupported("column type " + t.String())
}

func (b syntaxBase) SpecialDBType(t SpecialDBType) (string, error) {
	if s, ok := b.d.specialTypes[t]; ok {
		return s, nil
	}
	return "", b.unsupported("special database type " + t.String())
}

// IndexType returns the keyword placed between CREATE and INDEX. It may be
// empty on engines without clustered indexes.
func (b syntaxBase) IndexType(t IndexType) (string, error) {
	if s, ok := b.d.indexTypes[t]; ok {
		return s, nil
	}
	return "", b.unsupported("index type " + t.String())
}

func (b syntaxBase) SystemMethod(m SystemMethod) (string, bool) {
	s, ok := b.d.systemMethods[m]
	return s, ok
}

func (b syntaxBase) Placeholder(n int) string {
	return b.d.placeholder(n)
}

func (b syntaxBase) FormatIdentity(col ColumnDefinition) string {
	if !col.IsIdentity {
		return ""
	}
	return b.d.identity
}

func (b syntaxBase) FormatColumn(col ColumnDefinition) (string, error) {
	typ, err := b.ColumnType(col.Type)
	if err != nil {
		return "", err
	}
	if col.Type == TypeString && col.Size > 0 && b.d.sizedString != nil {
		typ = b.d.sizedString(col.Size)
	}

	parts := []string{b.QuoteColumnName(col.Name), typ}
	if identity := b.FormatIdentity(col); identity != "" {
		parts = append(parts, identity)
	}
	if col.Nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	switch {
	case col.DefaultMethod != 0:
		method, ok := b.SystemMethod(col.DefaultMethod)
		if !ok {
			return "", b.unsupported("system method " + col.DefaultMethod.String())
		}
		parts = append(parts, "DEFAULT", method)
	case col.Default != "":
		parts = append(parts, "DEFAULT", col.Default)
	}

	return strings.Join(parts, " "), nil
}

func (b syntaxBase) FormatCreateTable(table TableDefinition) (string, error) {
	if len(table.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", table.Name)
	}
	cols := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		s, err := b.FormatColumn(c)
		if err != nil {
			return "", fmt.Errorf("column %s.%s: %w", table.Name, c.Name, err)
		}
		cols = append(cols, s)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", b.QuoteTableName(table.Name), strings.Join(cols, ", ")), nil
}

// FormatPrimaryKey uses the first column marked as primary key. Its
// PrimaryKeyColumns, when set, name the columns of a composite key.
func (b syntaxBase) FormatPrimaryKey(table TableDefinition) string {
	var pk *ColumnDefinition
	for i := range table.Columns {
		if table.Columns[i].IsPrimaryKey {
			pk = &table.Columns[i]
			break
		}
	}
	if pk == nil {
		return ""
	}

	name := pk.PrimaryKeyName
	if name == "" {
		name = "PK_" + table.Name
	}

	columns := pk.PrimaryKeyColumns
	if len(columns) == 0 {
		columns = []string{pk.Name}
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = b.QuoteColumnName(strings.TrimSpace(c))
	}

	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s (%s)",
		b.QuoteTableName(table.Name),
		b.QuoteName(name),
		b.d.primaryKeyKeyword(*pk),
		strings.Join(quoted, ", "))
}

func queryStrings(ctx context.Context, db Database, query string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func queryColumns(ctx context.Context, db Database, query string) ([]ColumnInfo, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ColumnInfo
	for rows.Next() {
		var (
			c          ColumnInfo
			def        sql.NullString
			isNullable string
		)
		if err := rows.Scan(&c.TableName, &c.ColumnName, &c.OrdinalPosition, &def, &isNullable, &c.DataType); err != nil {
			return nil, err
		}
		c.ColumnDefault = def.String
		c.IsNullable = strings.EqualFold(isNullable, "YES")
		out = append(out, c)
	}
	return out, rows.Err()
}

func queryTableConstraints(ctx context.Context, db Database, query string) ([]ConstraintInfo, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConstraintInfo
	for rows.Next() {
		var c ConstraintInfo
		if err := rows.Scan(&c.TableName, &c.ConstraintName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func queryColumnConstraints(ctx context.Context, db Database, query string) ([]ConstraintInfo, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ConstraintInfo
	for rows.Next() {
		var c ConstraintInfo
		if err := rows.Scan(&c.TableName, &c.ColumnName, &c.ConstraintName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func queryIndexes(ctx context.Context, db Database, query string) ([]IndexInfo, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IndexInfo
	for rows.Next() {
		var i IndexInfo
		if err := rows.Scan(&i.TableName, &i.IndexName, &i.ColumnName, &i.IsUnique); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func queryExists(ctx context.Context, db Database, query string, args ...any) (bool, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, err
		}
	}
	return n > 0, rows.Err()
}
