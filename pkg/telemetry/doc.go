// Package telemetry bundles the observability components of pricebook.
//
// # Components
//
//   - logging: structured slog logging with prompt/response masking
//   - metrics: Prometheus metrics collection
//   - tracing: OpenTelemetry tracing over OTLP gRPC
//   - health: liveness and readiness checks
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry)
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("catalog loaded", "entries", 18)
//	tel.Metrics().RecordTier("OpenAI", "Tier 1")
//
// # Privacy
//
// Prompt and response text reaches none of these sinks. Log attributes
// named prompt, response, text, content or body are masked, metric labels
// come from the catalog only, and spans carry token counts instead of text.
package telemetry
