package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/rasmusjp/Umbraco-CMS/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down on stop, flushing
// pending spans.
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "cms"} }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// NewClientWithDI creates the tracer with the application logger.
func NewClientWithDI(cfg Config, log *logger.Logger) *Tracer {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle shuts the tracer provider down when the application stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer", nil, nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("tracer was nil during shutdown", nil, nil)
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
