// Package database resolves provider names to the dialect layer.
//
// A Factory is a registry keyed by provider name. For each registered name it
// holds one syntax provider (built at registration time), one bulk insert
// strategy and the database/sql driver to open connections with. Names and
// aliases are matched case-insensitively.
//
// # Basic Usage
//
//	f, err := database.NewDefaultFactory(log)
//	if err != nil {
//	    return err // a built-in dialect failed its construction checks
//	}
//
//	provider, err := f.SyntaxProvider(descriptor.ProviderName)
//	inserter, err := f.BulkInserter(descriptor.ProviderName)
//	db, err := f.Open(descriptor)
//
// # Lookup Policy
//
// Every lookup follows the same rules:
//   - an empty name returns nil and no error: no database is configured yet
//   - a recognised but unsupported name (SqlCe) fails with *UnsupportedProviderError
//   - an unregistered name fails with *UnknownProviderError
//
// A supported provider without an optimised bulk insert strategy gets the
// basic row-by-row strategy, so BulkInserter never returns nil for it.
//
// CreateDatabase always fails with ErrCreateDatabaseNotSupported.
//
// # Custom Providers
//
// Additional engines are plugged in through Registration:
//
//	f, err := database.NewFactory(log,
//	    database.SQLServerRegistration(),
//	    database.PostgreSQLRegistration(),
//	    database.Registration{
//	        Name:              "Custom",
//	        DriverName:        "custom",
//	        NewSyntaxProvider: newCustomProvider,
//	    },
//	)
//
// # Using with Fx Dependency Injection
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Provide(func() database.Config { return cfg }),
//	)
//
// The module pings the database on start and closes the pool on stop.
package database
