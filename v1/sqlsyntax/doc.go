// Package sqlsyntax renders engine-specific SQL and implements the row-based
// lock protocol used to coordinate work across processes.
//
// A Provider hides the differences between database engines behind one
// interface: identifier quoting, native column types, DDL fragments, catalog
// introspection and lock acquisition. Two engines are built in:
//
//	mssql, err := sqlsyntax.NewSQLServer()
//	pg, err := sqlsyntax.NewPostgreSQL()
//
// Providers hold no connection and no mutable state. They are usually obtained
// from the provider factory in the database package, which keeps one instance
// per provider name.
//
// # Database handles
//
// Every operation that talks to the engine takes a Database. Wrap a *sql.Tx
// with NewDatabase, passing the isolation level it was opened with:
//
//	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
//	handle := sqlsyntax.NewDatabase(tx, sql.LevelReadCommitted)
//
// Code running inside a gorm transaction can use FromGorm instead:
//
//	err := gdb.Transaction(func(tx *gorm.DB) error {
//	    handle, err := sqlsyntax.FromGorm(tx, sql.LevelDefault)
//	    ...
//	})
//
// When the level is sql.LevelDefault the provider asks the engine for the
// effective isolation level before taking a lock.
//
// # Locks
//
// Each lock is a row of the umbracoLock table identified by a well-known id
// such as LockServers or LockMainDom. WriteLock flips the row's value, which
// takes an exclusive row lock; ReadLock reads it under a shared lock. Locks
// are held until the transaction commits or rolls back. There is no unlock.
//
//	err := provider.WriteLock(ctx, handle, 0, sqlsyntax.LockContentTree, sqlsyntax.LockMediaTree)
//
// Ids are locked in the order given. Callers that take several locks should
// always pass them in the same order to avoid deadlocks.
//
// Failures are typed:
//   - *IsolationLevelError: the transaction is weaker than ReadCommitted.
//     Nothing was executed against the lock table.
//   - *LockNotFoundError: the row for an id is missing. This is a seeding
//     problem and must not be retried.
//   - *LockAcquisitionError: the engine gave up waiting. errors.Is matches
//     ErrLockTimeout or ErrDeadlock; the original driver error is preserved.
//
// No operation in this package retries.
package sqlsyntax
