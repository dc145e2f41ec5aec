// Package locking runs work while holding rows of the umbracoLock table.
//
// The lock protocol itself lives in sqlsyntax: a write lock flips the value of
// a row, a read lock reads it under a shared lock, and both last until the
// surrounding transaction ends. A Coordinator owns that transaction:
//
//	provider, _ := factory.SyntaxProvider(dbprovider.PostgreSQL)
//	c, err := locking.NewCoordinator(provider, db, log,
//		locking.WithMetrics(m),
//		locking.WithTracer(t),
//	)
//
//	err := c.WithWriteLock(ctx, []int{sqlsyntax.LockContentTree, sqlsyntax.LockMediaTree}, 0,
//		func(ctx context.Context, db sqlsyntax.Database) error {
//			// both trees are locked until this function returns
//			return nil
//		})
//
// Failed acquisitions are returned unchanged, so errors.Is works against the
// sqlsyntax sentinels (ErrLockTimeout, ErrDeadlock, ErrLockNotFound,
// ErrIsolationLevel). Nothing is retried; a timeout or deadlock leaves the
// decision to the caller.
//
// Each call logs the outcome with the trace ids of ctx, counts it in the
// lock metrics with a reason label from FailureReason, and records a span
// named "umbracoLock.read" or "umbracoLock.write".
package locking
