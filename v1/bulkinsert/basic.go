package bulkinsert

import (
	"context"
	"fmt"
	"strings"
)

// Basic inserts rows one at a time through a prepared INSERT. It works on any
// engine the dialect can quote for.
type Basic struct {
	dialect Dialect
}

// NewBasic returns the row-by-row strategy for d.
func NewBasic(d Dialect) *Basic {
	return &Basic{dialect: d}
}

func (b *Basic) insertStatement(table string, columns []string) string {
	cols := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = b.dialect.QuoteColumnName(c)
		params[i] = b.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.dialect.QuoteTableName(table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

func (b *Basic) BulkInsert(ctx context.Context, p Preparer, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := validate(columns, rows); err != nil {
		return 0, err
	}

	stmt, err := p.PrepareContext(ctx, b.insertStatement(table, columns))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var total int64
	for i, r := range rows {
		res, err := stmt.ExecContext(ctx, r...)
		if err != nil {
			return total, fmt.Errorf("failed to insert row %d into %s: %w", i, table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = 1
		}
		total += n
	}
	return total, nil
}
