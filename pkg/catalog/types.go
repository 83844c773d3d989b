package catalog

import (
	"fmt"
	"strings"
)

// Key identifies a priced model variant.
type Key struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
	Version  string `json:"version" yaml:"version"`
}

// String returns the key in "Provider/Model/Version" form.
func (k Key) String() string {
	return k.Provider + "/" + k.Model + "/" + k.Version
}

// ParseKey parses a "Provider/Model/Version" selection key.
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%w: %q is not in provider/model/version form", ErrUnknownModelSelection, s)
	}
	k := Key{
		Provider: strings.TrimSpace(parts[0]),
		Model:    strings.TrimSpace(parts[1]),
		Version:  strings.TrimSpace(parts[2]),
	}
	if k.Provider == "" || k.Model == "" || k.Version == "" {
		return Key{}, fmt.Errorf("%w: %q has an empty component", ErrUnknownModelSelection, s)
	}
	return k, nil
}

// ModelEntry describes the limits and prices of a single model version.
// InputCost and OutputCost are per 1000 tokens and are either both metered
// or both self-hosted.
type ModelEntry struct {
	Provider      string `json:"provider" yaml:"provider"`
	Model         string `json:"model" yaml:"model"`
	Version       string `json:"version" yaml:"version"`
	ContextWindow Limit  `json:"context_window" yaml:"context_window"`
	ResponseLimit Limit  `json:"response_limit" yaml:"response_limit"`
	InputCost     Amount `json:"input_cost" yaml:"input_cost"`
	OutputCost    Amount `json:"output_cost" yaml:"output_cost"`
}

// Key returns the selection key for the entry.
func (e ModelEntry) Key() Key {
	return Key{Provider: e.Provider, Model: e.Model, Version: e.Version}
}

// SelfHosted reports whether the entry has no metered price.
func (e ModelEntry) SelfHosted() bool {
	return e.InputCost.IsSelfHosted()
}

// UsageProfile is a named monthly usage assumption used for projections.
type UsageProfile struct {
	Name              string `json:"name" yaml:"name"`
	MonthlyPrompts    int    `json:"monthly_prompts" yaml:"monthly_prompts"`
	AvgPromptTokens   int    `json:"avg_prompt_tokens" yaml:"avg_prompt_tokens"`
	AvgResponseTokens int    `json:"avg_response_tokens" yaml:"avg_response_tokens"`
}

// VolumeTier is a volume bracket. Tokens up to and including Ceiling are
// billed at DiscountMultiplier times the provider base rate.
type VolumeTier struct {
	Name               string  `json:"name" yaml:"name"`
	Ceiling            Limit   `json:"ceiling" yaml:"ceiling"`
	DiscountMultiplier float64 `json:"discount_multiplier" yaml:"discount_multiplier"`
}

// ProviderRates holds the volume pricing for one provider. Tiers are kept in
// table order; resolvers never re-sort them.
type ProviderRates struct {
	Provider           string       `json:"provider" yaml:"provider"`
	BaseRatePerMillion float64      `json:"base_rate_per_million" yaml:"base_rate_per_million"`
	Tiers              []VolumeTier `json:"tiers" yaml:"tiers"`
}

func (r ProviderRates) clone() ProviderRates {
	r.Tiers = append([]VolumeTier(nil), r.Tiers...)
	return r
}
