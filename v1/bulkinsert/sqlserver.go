package bulkinsert

import (
	"context"

	mssql "github.com/microsoft/go-mssqldb"
)

// SQLServer uses the TDS bulk copy protocol of go-mssqldb.
type SQLServer struct {
	// Options are passed to every bulk copy. The zero value uses server defaults.
	Options mssql.BulkOptions
}

// NewSQLServer returns the SQL Server bulk copy strategy.
func NewSQLServer() *SQLServer {
	return &SQLServer{}
}

func (s *SQLServer) BulkInsert(ctx context.Context, p Preparer, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := validate(columns, rows); err != nil {
		return 0, err
	}
	return copyRows(ctx, p, mssql.CopyIn(table, s.Options, columns...), table, rows)
}
