package database

import (
	"context"
	"database/sql"

	"go.uber.org/fx"

	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
	"github.com/rasmusjp/Umbraco-CMS/v1/logger"
)

// FXModule provides the provider factory, the resolved connection descriptor
// and an opened *sql.DB.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Provide(func() database.Config {
//	        cfg, _ := connstring.LoadConfig("config.yaml")
//	        return database.Config{Connections: cfg}
//	    }),
//	    fx.Invoke(func(f *database.Factory, d connstring.Descriptor) {
//	        provider, _ := f.SyntaxProvider(d.ProviderName)
//	        // ...
//	    }),
//	)
//
// A *logger.Logger must be available in the container.
var FXModule = fx.Module("database",
	fx.Provide(
		NewFactoryWithDI,
		NewDescriptorWithDI,
		NewDBWithDI,
	),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// NewFactoryWithDI builds the default factory.
func NewFactoryWithDI(log *logger.Logger) (*Factory, error) {
	return NewDefaultFactory(log)
}

// NewDescriptorWithDI resolves the configured connection descriptor.
func NewDescriptorWithDI(cfg Config) (connstring.Descriptor, error) {
	return cfg.Descriptor()
}

// DBParams groups the dependencies needed to open the database.
type DBParams struct {
	fx.In

	Factory    *Factory
	Descriptor connstring.Descriptor
}

// NewDBWithDI opens the configured database.
func NewDBWithDI(params DBParams) (*sql.DB, error) {
	return params.Factory.Open(params.Descriptor)
}

// DatabaseLifecycleParams groups the dependencies needed for lifecycle management.
type DatabaseLifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Logger     *logger.Logger
	DB         *sql.DB
	Descriptor connstring.Descriptor
}

// RegisterDatabaseLifecycle verifies the connection on start and closes the
// pool on stop.
func RegisterDatabaseLifecycle(params DatabaseLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.DB.PingContext(ctx); err != nil {
				params.Logger.Error("database is not reachable", err, map[string]interface{}{
					"connection": params.Descriptor.Name,
					"provider":   params.Descriptor.ProviderName,
				})
				return err
			}
			params.Logger.Info("database connection verified", nil, map[string]interface{}{
				"connection": params.Descriptor.Name,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("closing database connection", nil, map[string]interface{}{
				"connection": params.Descriptor.Name,
			})
			return params.DB.Close()
		},
	})
}
