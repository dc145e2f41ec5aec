package database

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/xo/dburl"

	"github.com/rasmusjp/Umbraco-CMS/v1/bulkinsert"
	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
)

// Factory resolves provider names to dialect providers and bulk insert
// strategies. The registry is built once in NewFactory and never modified,
// so a Factory is safe for concurrent use.
type Factory struct {
	log     Logger
	entries map[string]*entry
	names   []string
}

// NewFactory builds a factory from registrations. Every syntax provider is
// constructed here, so an incomplete dialect fails at startup rather than on
// first use.
func NewFactory(log Logger, registrations ...Registration) (*Factory, error) {
	f := &Factory{
		log:     log,
		entries: make(map[string]*entry),
	}

	for _, r := range registrations {
		e, err := newEntry(r)
		if err != nil {
			return nil, err
		}

		for _, key := range append([]string{r.Name}, r.Aliases...) {
			k := normalize(key)
			if k == "" {
				continue
			}
			if existing, ok := f.entries[k]; ok {
				return nil, fmt.Errorf("%w: %q is registered by both %s and %s", ErrInvalidRegistration, key, existing.reg.Name, r.Name)
			}
			f.entries[k] = e
		}
		f.names = append(f.names, r.Name)

		log.Debug("registered database provider", nil, map[string]interface{}{
			"provider":    r.Name,
			"aliases":     r.Aliases,
			"unsupported": r.Unsupported,
		})
	}

	sort.Strings(f.names)
	return f, nil
}

// NewDefaultFactory registers SqlServer, PostgreSql and the unsupported SqlCe.
func NewDefaultFactory(log Logger) (*Factory, error) {
	return NewFactory(log, DefaultRegistrations()...)
}

// Names returns the canonical names of all registered providers, sorted.
func (f *Factory) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// lookup returns (nil, nil) for an empty name.
func (f *Factory) lookup(name string) (*entry, error) {
	k := normalize(name)
	if k == "" {
		return nil, nil
	}
	e, ok := f.entries[k]
	if !ok {
		return nil, &UnknownProviderError{Name: name}
	}
	if e.reg.Unsupported {
		return nil, &UnsupportedProviderError{Name: e.reg.Name}
	}
	return e, nil
}

// SyntaxProvider returns the dialect provider registered for name. An empty
// name returns (nil, nil): no database is configured.
func (f *Factory) SyntaxProvider(name string) (sqlsyntax.Provider, error) {
	e, err := f.lookup(name)
	if err != nil || e == nil {
		return nil, err
	}
	return e.provider, nil
}

// BulkInserter returns the bulk insert strategy for name. It is never nil for
// a supported provider. An empty name returns (nil, nil).
func (f *Factory) BulkInserter(name string) (bulkinsert.Inserter, error) {
	e, err := f.lookup(name)
	if err != nil || e == nil {
		return nil, err
	}
	return e.inserter, nil
}

// DriverName returns the database/sql driver for name, or "" for an empty name.
func (f *Factory) DriverName(name string) (string, error) {
	e, err := f.lookup(name)
	if err != nil || e == nil {
		return "", err
	}
	return e.reg.DriverName, nil
}

// CreateDatabase is not supported by any provider. Databases are created by
// the installer outside this module.
func (f *Factory) CreateDatabase(name string) error {
	return fmt.Errorf("%s: %w", name, ErrCreateDatabaseNotSupported)
}

// Open returns a connection pool for the descriptor. URL-shaped connection
// strings are opened through dburl, everything else with the provider's driver.
func (f *Factory) Open(d connstring.Descriptor) (*sql.DB, error) {
	if !d.IsConfigured() {
		return nil, fmt.Errorf("connection %q: %w", d.Name, ErrNoDatabaseConfigured)
	}
	e, err := f.lookup(d.ProviderName)
	if err != nil {
		return nil, fmt.Errorf("connection %q: %w", d.Name, err)
	}

	if validate := e.reg.ValidateConnectionString; validate != nil && !connstring.IsURL(d.ConnectionString) {
		if err := validate(d.ConnectionString); err != nil {
			return nil, fmt.Errorf("connection %q: %w", d.Name, err)
		}
	}

	var db *sql.DB
	if connstring.IsURL(d.ConnectionString) {
		db, err = dburl.Open(d.ConnectionString)
	} else {
		db, err = sql.Open(e.reg.DriverName, d.ConnectionString)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open connection %q: %w", d.Name, err)
	}

	f.log.Info("opened database connection", nil, map[string]interface{}{
		"connection": d.Name,
		"provider":   e.reg.Name,
	})
	return db, nil
}
