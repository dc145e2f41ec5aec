package sqlsyntax

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LockTableName is the table holding one row per lock id.
const LockTableName = "umbracoLock"

// DefaultLockTimeout applies when WriteLock is called with a zero timeout.
const DefaultLockTimeout = 1800 * time.Millisecond

// Well-known lock ids. The rows are seeded by the schema installer.
const (
	LockServers             = -331
	LockContentTypes        = -332
	LockContentTree         = -333
	LockMediaTypes          = -334
	LockMediaTree           = -335
	LockMemberTypes         = -336
	LockMemberTree          = -337
	LockDomains             = -338
	LockKeyValues           = -339
	LockLanguages           = -340
	LockScheduledPublishing = -341
	LockMainDom             = -1000
)

// lockStatements are the engine-specific parts of the lock protocol.
type lockStatements struct {
	setTimeout func(timeout time.Duration) string

	// resetTimeout, when set, restores the engine default after each flip.
	resetTimeout string

	// flip and read take the lock id as their only parameter.
	flip string
	read string

	// classify maps a driver error to ErrLockTimeout or ErrDeadlock, or nil.
	classify func(err error) error
}

type isolationResolver interface {
	ProviderName() string
	CurrentIsolationLevel(ctx context.Context, db Database) (sql.IsolationLevel, error)
}

func requireReadCommitted(ctx context.Context, db Database, r isolationResolver) error {
	level := db.IsolationLevel()
	if level == sql.LevelDefault {
		var err error
		level, err = r.CurrentIsolationLevel(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to determine isolation level: %w", err)
		}
	}
	if level < sql.LevelReadCommitted {
		return &IsolationLevelError{Provider: r.ProviderName(), Level: level}
	}
	return nil
}

func writeLock(ctx context.Context, db Database, r isolationResolver, stmts lockStatements, timeout time.Duration, ids []int) error {
	if err := requireReadCommitted(ctx, db, r); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	for _, id := range ids {
		if _, err := db.Exec(ctx, stmts.setTimeout(timeout)); err != nil {
			return fmt.Errorf("failed to set lock timeout for lock id=%d: %w", id, err)
		}
		n, err := db.Exec(ctx, stmts.flip, id)
		if stmts.resetTimeout != "" {
			if _, resetErr := db.Exec(ctx, stmts.resetTimeout); resetErr != nil && err == nil {
				return fmt.Errorf("failed to reset lock timeout after lock id=%d: %w", id, resetErr)
			}
		}
		if err != nil {
			return lockFailure(id, timeout, err, stmts.classify)
		}
		if n == 0 {
			return &LockNotFoundError{LockID: id}
		}
	}
	return nil
}

func readLock(ctx context.Context, db Database, r isolationResolver, stmts lockStatements, ids []int) error {
	if err := requireReadCommitted(ctx, db, r); err != nil {
		return err
	}

	for _, id := range ids {
		found, err := readLockRow(ctx, db, stmts.read, id)
		if err != nil {
			return lockFailure(id, 0, err, stmts.classify)
		}
		if !found {
			return &LockNotFoundError{LockID: id}
		}
	}
	return nil
}

func readLockRow(ctx context.Context, db Database, query string, id int) (bool, error) {
	rows, err := db.Query(ctx, query, id)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return false, rows.Err()
	}
	var value sql.NullInt64
	if err := rows.Scan(&value); err != nil {
		return false, err
	}
	return value.Valid, rows.Err()
}

func lockFailure(id int, timeout time.Duration, err error, classify func(error) error) error {
	reason := classify(err)
	if reason == nil && errors.Is(err, context.DeadlineExceeded) {
		reason = ErrLockTimeout
	}
	if reason != nil {
		return &LockAcquisitionError{LockID: id, Timeout: timeout, Reason: reason, Cause: err}
	}
	return fmt.Errorf("failed to acquire lock id=%d: %w", id, err)
}
