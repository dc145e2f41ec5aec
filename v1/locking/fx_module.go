package locking

import (
	"database/sql"

	"go.uber.org/fx"

	"github.com/rasmusjp/Umbraco-CMS/v1/connstring"
	"github.com/rasmusjp/Umbraco-CMS/v1/database"
	"github.com/rasmusjp/Umbraco-CMS/v1/logger"
	"github.com/rasmusjp/Umbraco-CMS/v1/metrics"
	"github.com/rasmusjp/Umbraco-CMS/v1/tracer"
)

// FXModule provides a *Coordinator for the configured connection. Metrics and
// tracing are used when their modules are present.
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    metrics.FXModule,
//	    tracer.FXModule,
//	    locking.FXModule,
//	    // configs...
//	)
var FXModule = fx.Module("locking",
	fx.Provide(
		NewCoordinatorWithDI,
	),
)

// CoordinatorParams groups the dependencies of NewCoordinatorWithDI.
type CoordinatorParams struct {
	fx.In

	Factory    *database.Factory
	Descriptor connstring.Descriptor
	DB         *sql.DB
	Logger     *logger.Logger
	Metrics    metrics.LockRecorder `optional:"true"`
	Tracer     *tracer.Tracer       `optional:"true"`
}

// NewCoordinatorWithDI resolves the dialect provider of the configured
// connection and builds the coordinator on the shared pool.
func NewCoordinatorWithDI(params CoordinatorParams) (*Coordinator, error) {
	provider, err := params.Factory.SyntaxProvider(params.Descriptor.ProviderName)
	if err != nil {
		return nil, err
	}

	var opts []Option
	if params.Metrics != nil {
		opts = append(opts, WithMetrics(params.Metrics))
	}
	if params.Tracer != nil {
		opts = append(opts, WithTracer(params.Tracer))
	}
	return NewCoordinator(provider, params.DB, params.Logger, opts...)
}
