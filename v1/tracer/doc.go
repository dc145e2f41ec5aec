// Package tracer provides distributed tracing using OpenTelemetry.
//
// A Tracer wraps an SDK TracerProvider configured with the service name and
// deployment environment. When export is enabled spans are batched to an OTLP
// HTTP collector.
//
//	t := tracer.NewClient(tracer.Config{
//		ServiceName:  "cms",
//		AppEnv:       "production",
//		EnableExport: true,
//	}, log)
//
//	ctx, span := t.StartSpan(ctx, "umbracoLock.write")
//	defer span.End()
//
//	t.SetAttributes(span, map[string]interface{}{"db.system": "postgresql"})
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// NewClient registers the provider globally and installs the W3C trace context
// propagator, so log lines written with the logger's *WithContext methods carry
// the trace and span ids. NewClientWithOptions leaves the globals alone and is
// meant for tests that attach a span recorder.
//
// With fx, use FXModule; the provider is shut down when the application stops.
package tracer
