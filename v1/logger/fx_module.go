package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger from a Config and flushes it on shutdown.
//
//	app := fx.New(
//	    logger.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs the zap logger when the application stops so
// buffered entries are not lost.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Syncing stderr fails with EINVAL on some platforms; that is not a shutdown error.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
