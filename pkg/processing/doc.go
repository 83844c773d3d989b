// Package processing is the pricing engine facade used by the CLI and the
// HTTP API.
//
// # Architecture
//
// The work is done by sub-packages:
//
//   - tokens: character-based token estimation (ceil(chars / 4))
//   - costs: per-request cost and monthly projection for a model variant
//   - volume: volume tier resolution from provider rate tables
//
// Processor wires them to a shared catalog and to the telemetry stack, and
// adds file ingest through pkg/ingest.
//
// # Usage
//
//	p := processing.NewProcessor(catalog.Default(), cfg,
//		processing.WithMetrics(tel.Metrics()),
//		processing.WithTracer(tel.Tracer()),
//	)
//
//	est, err := p.Estimate(ctx, processing.EstimateRequest{
//		Key:      catalog.Key{Provider: "Anthropic", Model: "Claude", Version: "3-Opus"},
//		Prompt:   prompt,
//		Response: response,
//	})
//
// # Hot reload
//
// UpdateCatalog swaps the catalog for every component at once. Calls in
// flight finish against the snapshot they started with.
//
// # Privacy
//
// Prompt, response and uploaded file contents are held in memory for the
// duration of a call. They are never persisted, logged or exported as
// telemetry.
package processing
