package sqlsyntax

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Common errors returned by dialect providers. Typed errors below match these
// sentinels through errors.Is.
var (
	// ErrUnsupportedFeature is returned when a provider has no representation for a requested feature.
	ErrUnsupportedFeature = errors.New("feature not supported by provider")

	// ErrIncompleteTypeMap is returned when a provider is constructed without a mapping for every logical type.
	ErrIncompleteTypeMap = errors.New("incomplete column type map")

	// ErrLockNotFound is returned when a lock id has no row in the lock table.
	ErrLockNotFound = errors.New("lock object does not exist")

	// ErrIsolationLevel is returned when a lock is requested under a transaction weaker than ReadCommitted.
	ErrIsolationLevel = errors.New("a transaction with minimum ReadCommitted isolation level is required")

	// ErrLockTimeout is returned when a write lock could not be acquired within its timeout.
	ErrLockTimeout = errors.New("lock timeout")

	// ErrDeadlock is returned when the engine chose the lock request as a deadlock victim.
	ErrDeadlock = errors.New("deadlock detected")
)

// UnsupportedFeatureError names the feature a provider could not render.
type UnsupportedFeatureError struct {
	Provider string
	Feature  string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: %s is not supported", e.Provider, e.Feature)
}

// Is reports whether target is ErrUnsupportedFeature.
func (e *UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupportedFeature
}

// LockNotFoundError reports a lock id with no row in the lock table.
// It indicates a missing seed row and must not be retried.
type LockNotFoundError struct {
	LockID int
}

func (e *LockNotFoundError) Error() string {
	return fmt.Sprintf("lock object with id=%d does not exist", e.LockID)
}

// Is reports whether target is ErrLockNotFound.
func (e *LockNotFoundError) Is(target error) bool {
	return target == ErrLockNotFound
}

// IsolationLevelError reports a lock request made under a too-weak isolation level.
type IsolationLevelError struct {
	Provider string
	Level    sql.IsolationLevel
}

func (e *IsolationLevelError) Error() string {
	return fmt.Sprintf("%s: %s (current level: %s)", e.Provider, ErrIsolationLevel.Error(), e.Level)
}

// Is reports whether target is ErrIsolationLevel.
func (e *IsolationLevelError) Is(target error) bool {
	return target == ErrIsolationLevel
}

// LockAcquisitionError reports an engine-level failure to take a lock.
// Reason is ErrLockTimeout or ErrDeadlock; Cause is the driver error.
type LockAcquisitionError struct {
	LockID  int
	Timeout time.Duration
	Reason  error
	Cause   error
}

func (e *LockAcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire lock id=%d within %s: %v: %v", e.LockID, e.Timeout, e.Reason, e.Cause)
}

// Unwrap exposes both the classified reason and the driver error.
func (e *LockAcquisitionError) Unwrap() []error {
	return []error{e.Reason, e.Cause}
}
