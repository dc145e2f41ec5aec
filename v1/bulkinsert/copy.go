package bulkinsert

import (
	"context"
	"fmt"
)

func validate(columns []string, rows [][]any) error {
	if len(columns) == 0 {
		return ErrNoColumns
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return fmt.Errorf("row %d: %w: got %d values for %d columns", i, ErrColumnMismatch, len(r), len(columns))
		}
	}
	return nil
}

// copyRows runs a driver copy statement: one Exec per row buffers the row and
// a final Exec without arguments flushes the batch.
func copyRows(ctx context.Context, p Preparer, query, table string, rows [][]any) (int64, error) {
	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bulk copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return 0, fmt.Errorf("failed to buffer row %d for %s: %w", i, table, err)
		}
	}

	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to flush bulk copy into %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return n, nil
	}
	return int64(len(rows)), nil
}
