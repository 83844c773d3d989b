package volume

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/processing/costs"
	"mercator-hq/pricebook/pkg/processing/tokens"
)

// ErrNoTier is returned when a known provider's rate table has no tier
// admitting the requested volume.
var ErrNoTier = errors.New("no volume tier admits the token total")

// Quote is the result of a tier resolution.
type Quote struct {
	Provider           string  `json:"provider" yaml:"provider"`
	Tier               string  `json:"tier" yaml:"tier"`
	TotalTokens        int     `json:"total_tokens" yaml:"total_tokens"`
	BaseRatePerMillion float64 `json:"base_rate_per_million" yaml:"base_rate_per_million"`
	DiscountMultiplier float64 `json:"discount_multiplier" yaml:"discount_multiplier"`
	Cost               float64 `json:"cost" yaml:"cost"`
}

// ResolveTier selects the first tier of rates that admits totalTokens and
// prices the volume at that tier.
func ResolveTier(rates catalog.ProviderRates, totalTokens int) (Quote, error) {
	if totalTokens < 0 {
		return Quote{}, &costs.MalformedInputError{Field: "total_tokens", Reason: "must be non-negative"}
	}

	for _, tier := range rates.Tiers {
		if !tier.Ceiling.Allows(totalTokens) {
			continue
		}
		return Quote{
			Provider:           rates.Provider,
			Tier:               tier.Name,
			TotalTokens:        totalTokens,
			BaseRatePerMillion: rates.BaseRatePerMillion,
			DiscountMultiplier: tier.DiscountMultiplier,
			Cost:               float64(totalTokens) * rates.BaseRatePerMillion * tier.DiscountMultiplier / 1_000_000,
		}, nil
	}

	// Only reachable for tables missing their unbounded tier.
	return Quote{}, fmt.Errorf("%w: %s has no tier admitting %d tokens", ErrNoTier, rates.Provider, totalTokens)
}

// Resolver resolves tiers against a catalog.
// It is thread-safe and supports hot-reload of the catalog.
type Resolver struct {
	catalog   *catalog.Catalog
	estimator tokens.Estimator

	mu sync.RWMutex
}

// NewResolver creates a resolver over cat. A nil estimator uses the default
// four-characters-per-token estimator.
func NewResolver(cat *catalog.Catalog, estimator tokens.Estimator) *Resolver {
	if estimator == nil {
		estimator = tokens.NewSimpleEstimator(nil)
	}
	return &Resolver{catalog: cat, estimator: estimator}
}

// Resolve looks up provider's rates and resolves totalTokens against them.
func (r *Resolver) Resolve(provider string, totalTokens int) (Quote, error) {
	r.mu.RLock()
	cat := r.catalog
	r.mu.RUnlock()

	rates, err := cat.Rates(strings.TrimSpace(provider))
	if err != nil {
		return Quote{}, err
	}
	return ResolveTier(rates, totalTokens)
}

// ResolveText estimates the tokens of prompt and response and resolves their
// sum for provider.
func (r *Resolver) ResolveText(provider, prompt, response string) (Quote, error) {
	total := r.estimator.EstimateText(prompt) + r.estimator.EstimateText(response)
	return r.Resolve(provider, total)
}

// Providers lists the providers that have volume rates.
func (r *Resolver) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.catalog.AllRates()
	names := make([]string, 0, len(all))
	for _, rates := range all {
		names = append(names, rates.Provider)
	}
	return names
}

// UpdateCatalog replaces the catalog (hot-reload support).
func (r *Resolver) UpdateCatalog(cat *catalog.Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalog = cat
}
