// Package metrics exports Prometheus metrics for the pricing engine.
//
// # Metrics
//
// All names are prefixed with the configured namespace and subsystem
// (pricebook_engine_ by default):
//
//   - estimates_total{provider,model,outcome}
//   - estimate_tokens{provider} histogram
//   - estimate_cost_usd{provider} histogram, metered models only
//   - self_hosted_estimates_total{provider}
//   - tier_resolutions_total{provider,tier}
//   - engine_errors_total{kind}
//   - ingest_files_total{ext,outcome}
//   - catalog_reloads_total{outcome}
//   - catalog_entries gauge
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Prompt and response text never appear in labels. Provider and model
// labels come from the catalog, so cardinality is bounded by its size.
package metrics
