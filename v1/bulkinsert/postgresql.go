package bulkinsert

import (
	"context"

	"github.com/lib/pq"
)

// PostgreSQL streams rows with COPY FROM STDIN through lib/pq.
type PostgreSQL struct{}

// NewPostgreSQL returns the PostgreSQL COPY strategy.
func NewPostgreSQL() *PostgreSQL {
	return &PostgreSQL{}
}

func (s *PostgreSQL) BulkInsert(ctx context.Context, p Preparer, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := validate(columns, rows); err != nil {
		return 0, err
	}
	return copyRows(ctx, p, pq.CopyIn(table, columns...), table, rows)
}
