package costs

import (
	"math"

	"mercator-hq/pricebook/pkg/catalog"
)

// ResolveCost computes the estimate for entry given prompt and response token
// counts and a usage profile. It has no side effects: identical inputs always
// produce identical output.
//
// Malformed input yields a zero-valued estimate (carrying only the key) and a
// *MalformedInputError.
func ResolveCost(entry catalog.ModelEntry, promptTokens, responseTokens int, usage catalog.UsageProfile) (CostEstimate, error) {
	if err := checkInput(entry, promptTokens, responseTokens, usage); err != nil {
		return zeroEstimate(entry), err
	}

	total := promptTokens + responseTokens
	est := CostEstimate{
		Key:                 entry.Key(),
		PromptTokens:        promptTokens,
		ResponseTokens:      responseTokens,
		TotalTokens:         total,
		WithinContextWindow: entry.ContextWindow.Allows(total),
		WithinResponseLimit: entry.ResponseLimit.Allows(responseTokens),
		UsageProfile:        usage.Name,
		Currency:            DefaultCurrency,
	}

	if entry.SelfHosted() {
		est.CurrentRequestCost = catalog.SelfHosted()
		est.ProjectedMonthlyCost = catalog.SelfHosted()
		return est, nil
	}

	in, _ := entry.InputCost.Value()
	out, _ := entry.OutputCost.Value()

	est.CurrentRequestCost = catalog.Metered(perThousand(promptTokens, in, responseTokens, out))
	est.ProjectedMonthlyCost = catalog.Metered(
		float64(usage.MonthlyPrompts) * perThousand(usage.AvgPromptTokens, in, usage.AvgResponseTokens, out),
	)
	return est, nil
}

func perThousand(promptTokens int, in float64, responseTokens int, out float64) float64 {
	return (float64(promptTokens)*in + float64(responseTokens)*out) / 1000
}

func zeroEstimate(entry catalog.ModelEntry) CostEstimate {
	return CostEstimate{Key: entry.Key(), Currency: DefaultCurrency}
}

func checkInput(entry catalog.ModelEntry, promptTokens, responseTokens int, usage catalog.UsageProfile) error {
	switch {
	case promptTokens < 0:
		return &MalformedInputError{Field: "prompt_tokens", Reason: "must be non-negative"}
	case responseTokens < 0:
		return &MalformedInputError{Field: "response_tokens", Reason: "must be non-negative"}
	case usage.MonthlyPrompts < 0:
		return &MalformedInputError{Field: "usage.monthly_prompts", Reason: "must be non-negative"}
	case usage.AvgPromptTokens < 0:
		return &MalformedInputError{Field: "usage.avg_prompt_tokens", Reason: "must be non-negative"}
	case usage.AvgResponseTokens < 0:
		return &MalformedInputError{Field: "usage.avg_response_tokens", Reason: "must be non-negative"}
	}

	if entry.InputCost.IsSelfHosted() != entry.OutputCost.IsSelfHosted() {
		return &MalformedInputError{Field: "output_cost", Reason: "cost pair mixes metered and self-hosted"}
	}
	if entry.SelfHosted() {
		return nil
	}
	if !usableCost(entry.InputCost) {
		return &MalformedInputError{Field: "input_cost", Reason: "must be a finite non-negative number"}
	}
	if !usableCost(entry.OutputCost) {
		return &MalformedInputError{Field: "output_cost", Reason: "must be a finite non-negative number"}
	}
	return nil
}

func usableCost(a catalog.Amount) bool {
	v, ok := a.Value()
	return ok && !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
