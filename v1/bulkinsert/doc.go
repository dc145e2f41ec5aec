// Package bulkinsert writes batches of rows using the fastest path each
// engine offers.
//
// SQLServer uses the TDS bulk copy protocol, PostgreSQL uses COPY FROM STDIN,
// and Basic falls back to a prepared INSERT executed once per row. The
// provider factory picks the strategy for a provider name; every supported
// provider gets at least Basic.
//
//	tx, _ := db.BeginTx(ctx, nil)
//	n, err := inserter.BulkInsert(ctx, tx, "cmsTags", []string{"tag", "group"}, [][]any{
//	    {"news", "default"},
//	    {"events", "default"},
//	})
//
// The copy strategies must run inside a transaction.
package bulkinsert
