// Package tracing provides OpenTelemetry tracing for the pricing engine.
//
// # Overview
//
// When telemetry.tracing.enabled is set, spans are exported to an OTLP gRPC
// collector. Otherwise a noop tracer is used and span creation costs almost
// nothing, so callers never need to check whether tracing is on.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "costs.Estimate")
//	defer span.End()
//	tracing.SetTokenAttributes(span, est.PromptTokens, est.ResponseTokens)
//
// # Sampling
//
// Three strategies are supported: always, never and ratio. Each is wrapped
// in ParentBased so sampling decisions made upstream are respected.
//
// # Propagation
//
// HTTPMiddleware extracts W3C traceparent headers, starts a server span per
// request and echoes the trace ID in X-Trace-ID.
//
// # Privacy
//
// Spans carry selection keys, token counts and costs. Prompt and response
// text is never attached.
package tracing
