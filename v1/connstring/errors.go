package connstring

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClassification is returned when a connection string matches no known provider shape.
	ErrClassification = errors.New("cannot determine provider name from connection string")

	// ErrConnectionStringNotFound is returned when a named connection is not configured.
	ErrConnectionStringNotFound = errors.New("connection string not found")
)

// ClassificationError describes a connection string that could not be classified.
// It carries the keys that were present (never their values, which may hold secrets).
type ClassificationError struct {
	Keys   []string
	Reason string
}

func (e *ClassificationError) Error() string {
	msg := ErrClassification.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(" (keys: %s)", strings.Join(e.Keys, ", "))
	}
	return msg
}

// Is reports whether target is ErrClassification.
func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassification
}
