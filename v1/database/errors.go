package database

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedProvider is returned for provider names that are known but cannot be served.
	ErrUnsupportedProvider = errors.New("database provider is not supported")

	// ErrUnknownProvider is returned for provider names that were never registered.
	ErrUnknownProvider = errors.New("unknown database provider")

	// ErrCreateDatabaseNotSupported is returned by CreateDatabase for every provider.
	ErrCreateDatabaseNotSupported = errors.New("creating a database is not supported")

	// ErrNoDatabaseConfigured is returned by Open when the descriptor has no connection string.
	ErrNoDatabaseConfigured = errors.New("no database is configured")

	// ErrConnectionStringFormat is returned by Open for a connection string the provider's driver cannot read.
	ErrConnectionStringFormat = errors.New("connection string format not accepted by driver")

	// ErrInvalidRegistration is returned by NewFactory for malformed or conflicting registrations.
	ErrInvalidRegistration = errors.New("invalid provider registration")
)

// UnsupportedProviderError names a provider the factory recognises but refuses.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("database provider %q is not supported", e.Name)
}

// Is reports whether target is ErrUnsupportedProvider.
func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

// UnknownProviderError names a provider the factory has never heard of.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown database provider %q", e.Name)
}

// Is reports whether target is ErrUnknownProvider.
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}
