package locking

import "errors"

var (
	ErrNilProvider = errors.New("locking: dialect provider is nil")
	ErrNilDatabase = errors.New("locking: database handle is nil")
	ErrNilLogger   = errors.New("locking: logger is nil")
)
