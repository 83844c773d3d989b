// Package costs turns token counts into spend for a catalog entry.
//
// ResolveCost is the pure core: given a model entry, prompt and response
// token counts and a usage profile, it returns a CostEstimate holding the
// current request cost and a projected monthly cost. The projection uses the
// usage profile's averages only and never the actual request tokens.
//
// Self-hosted entries produce catalog.SelfHosted() for both cost fields, so a
// caller can always tell "unmetered" apart from a metered zero.
//
// # Usage
//
//	calc := costs.NewCalculator(catalog.Default(), tokens.NewSimpleEstimator(nil), nil)
//
//	est, err := calc.Estimate(catalog.Key{Provider: "Anthropic", Model: "Claude", Version: "3-Opus"},
//		prompt, response, "medium")
//	if err != nil {
//		slog.Error("estimate failed", "error", err)
//	}
//
// Calculator is safe for concurrent use. UpdateCatalog swaps the pricing data
// in place while estimates are running.
package costs
