package bulkinsert

import "errors"

var (
	// ErrNoColumns is returned when BulkInsert is called without column names.
	ErrNoColumns = errors.New("bulk insert requires at least one column")

	// ErrColumnMismatch is returned when a row's length differs from the column count.
	ErrColumnMismatch = errors.New("row value count does not match column count")
)
