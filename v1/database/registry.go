package database

import (
	"fmt"
	"strings"

	"github.com/rasmusjp/Umbraco-CMS/v1/bulkinsert"
	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
	"github.com/rasmusjp/Umbraco-CMS/v1/dbprovider"
	"github.com/rasmusjp/Umbraco-CMS/v1/sqlsyntax"
)

// Registration describes one provider name the factory answers for.
type Registration struct {
	// Name is the canonical provider name, e.g. dbprovider.SQLServer.
	Name string

	// Aliases are alternative names resolved case-insensitively, like Name.
	Aliases []string

	// Unsupported marks a name that is recognised but cannot be served.
	// Lookups fail with *UnsupportedProviderError.
	Unsupported bool

	// DriverName is the database/sql driver used by Open.
	DriverName string

	// ValidateConnectionString, when set, checks non-URL connection strings
	// before Open hands them to the driver.
	ValidateConnectionString func(connectionString string) error

	NewSyntaxProvider func() (sqlsyntax.Provider, error)

	// NewBulkInserter returns the optimised strategy for the provider.
	// When nil, or when it returns nil, the basic row-by-row strategy is used.
	NewBulkInserter func(sqlsyntax.Provider) bulkinsert.Inserter
}

// SQLServerRegistration serves SQL Server through go-mssqldb.
func SQLServerRegistration() Registration {
	return Registration{
		Name:       dbprovider.SQLServer,
		Aliases:    []string{"mssql", "sqlserver"},
		DriverName: "sqlserver",
		NewSyntaxProvider: func() (sqlsyntax.Provider, error) {
			return sqlsyntax.NewSQLServer()
		},
		NewBulkInserter: func(sqlsyntax.Provider) bulkinsert.Inserter {
			return bulkinsert.NewSQLServer()
		},
	}
}

// PostgreSQLRegistration serves PostgreSQL through lib/pq.
func PostgreSQLRegistration() Registration {
	return Registration{
		Name:                     dbprovider.PostgreSQL,
		Aliases:                  []string{"postgres", "postgresql", "pg"},
		DriverName:               "postgres",
		ValidateConnectionString: rejectSemicolonPairs,
		NewSyntaxProvider: func() (sqlsyntax.Provider, error) {
			return sqlsyntax.NewPostgreSQL()
		},
		NewBulkInserter: func(sqlsyntax.Provider) bulkinsert.Inserter {
			return bulkinsert.NewPostgreSQL()
		},
	}
}

// rejectSemicolonPairs refuses "Key=value;Key=value" strings. lib/pq reads
// space-separated lowercase pairs and would take "Host=db;Database=x" as one
// unknown setting.
func rejectSemicolonPairs(connectionString string) error {
	first, _, found := strings.Cut(strings.TrimSpace(connectionString), ";")
	if !found || strings.ContainsAny(first, " \t") {
		// libpq pairs; a ';' can only sit inside a quoted value
		return nil
	}
	v, err := connstring.Parse(connectionString)
	if err != nil || v.Len() < 2 {
		return nil
	}
	return fmt.Errorf("%w: semicolon-separated keys %s; use a postgres:// URL or \"host=... dbname=...\"",
		ErrConnectionStringFormat, strings.Join(v.Keys(), ", "))
}

// SQLCeRegistration recognises the embedded SQL CE engine without serving it.
func SQLCeRegistration() Registration {
	return Registration{
		Name:        dbprovider.SQLCe,
		Unsupported: true,
	}
}

// DefaultRegistrations are the providers NewDefaultFactory registers.
func DefaultRegistrations() []Registration {
	return []Registration{
		SQLServerRegistration(),
		PostgreSQLRegistration(),
		SQLCeRegistration(),
	}
}

type entry struct {
	reg      Registration
	provider sqlsyntax.Provider
	inserter bulkinsert.Inserter
}

func newEntry(r Registration) (*entry, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("%w: empty provider name", ErrInvalidRegistration)
	}
	e := &entry{reg: r}
	if r.Unsupported {
		return e, nil
	}
	if r.NewSyntaxProvider == nil {
		return nil, fmt.Errorf("%w: provider %s has no syntax provider", ErrInvalidRegistration, r.Name)
	}

	p, err := r.NewSyntaxProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to construct syntax provider %s: %w", r.Name, err)
	}
	e.provider = p

	if r.NewBulkInserter != nil {
		e.inserter = r.NewBulkInserter(p)
	}
	if e.inserter == nil {
		e.inserter = bulkinsert.NewBasic(p)
	}
	return e, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
