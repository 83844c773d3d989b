package volume

import (
	"errors"
	"math"
	"strings"
	"testing"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/processing/costs"
)

func anthropicRates() catalog.ProviderRates {
	return catalog.ProviderRates{
		Provider:           "Anthropic",
		BaseRatePerMillion: 15,
		Tiers: []catalog.VolumeTier{
			{Name: "Starter", Ceiling: catalog.Bounded(1_000_000), DiscountMultiplier: 1.0},
			{Name: "Growth", Ceiling: catalog.Bounded(10_000_000), DiscountMultiplier: 0.85},
			{Name: "Enterprise", Ceiling: catalog.Unbounded(), DiscountMultiplier: 0.7},
		},
	}
}

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		wantTier string
		wantCost float64
	}{
		{name: "zero", total: 0, wantTier: "Starter", wantCost: 0},
		{name: "first ceiling inclusive", total: 1_000_000, wantTier: "Starter", wantCost: 15},
		{name: "just past first ceiling", total: 1_000_001, wantTier: "Growth", wantCost: 1_000_001 * 15 * 0.85 / 1_000_000},
		{name: "second ceiling inclusive", total: 10_000_000, wantTier: "Growth", wantCost: 127.5},
		{name: "unbounded tier", total: 50_000_000, wantTier: "Enterprise", wantCost: 525},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ResolveTier(anthropicRates(), tt.total)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", q.Tier, tt.wantTier)
			}
			if math.Abs(q.Cost-tt.wantCost) > 1e-9 {
				t.Errorf("Cost = %v, want %v", q.Cost, tt.wantCost)
			}
			if q.TotalTokens != tt.total || q.Provider != "Anthropic" || q.BaseRatePerMillion != 15 {
				t.Errorf("unexpected quote: %+v", q)
			}
		})
	}
}

func TestResolveTier_TableOrderWins(t *testing.T) {
	// Ceilings out of order: the first admitting tier is chosen, not the
	// tightest one.
	rates := catalog.ProviderRates{
		Provider:           "Odd",
		BaseRatePerMillion: 10,
		Tiers: []catalog.VolumeTier{
			{Name: "Wide", Ceiling: catalog.Bounded(10_000), DiscountMultiplier: 1.0},
			{Name: "Narrow", Ceiling: catalog.Bounded(100), DiscountMultiplier: 0.5},
			{Name: "Rest", Ceiling: catalog.Unbounded(), DiscountMultiplier: 0.1},
		},
	}

	q, err := ResolveTier(rates, 50)
	if err != nil {
		t.Fatal(err)
	}
	if q.Tier != "Wide" {
		t.Errorf("Tier = %q, want Wide", q.Tier)
	}
}

func TestResolveTier_Errors(t *testing.T) {
	if _, err := ResolveTier(anthropicRates(), -1); !errors.Is(err, costs.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}

	bounded := anthropicRates()
	bounded.Tiers = bounded.Tiers[:2]
	_, err := ResolveTier(bounded, 20_000_000)
	if !errors.Is(err, ErrNoTier) {
		t.Errorf("expected ErrNoTier when no tier admits the volume, got %v", err)
	}
	if errors.Is(err, catalog.ErrUnknownProvider) {
		t.Errorf("a known provider must not report ErrUnknownProvider: %v", err)
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(catalog.Default(), nil)

	q, err := r.Resolve("anthropic", 1_000_001)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if q.Tier != "Growth" || q.Provider != "Anthropic" {
		t.Errorf("unexpected quote: %+v", q)
	}

	q, err = r.Resolve("OpenAI", 60_000_000)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if q.Tier != "Tier 3" || math.Abs(q.Cost-720) > 1e-9 {
		t.Errorf("unexpected quote: %+v", q)
	}

	for _, provider := range []string{"Mistral", "Meta", "Acme", ""} {
		if _, err := r.Resolve(provider, 10); !errors.Is(err, catalog.ErrUnknownProvider) {
			t.Errorf("Resolve(%q): expected ErrUnknownProvider, got %v", provider, err)
		}
	}
}

func TestResolver_ResolveText(t *testing.T) {
	r := NewResolver(catalog.Default(), nil)

	q, err := r.ResolveText("Google", strings.Repeat("x", 40), strings.Repeat("y", 41))
	if err != nil {
		t.Fatalf("ResolveText: %v", err)
	}
	if q.TotalTokens != 21 {
		t.Errorf("TotalTokens = %d, want 21", q.TotalTokens)
	}
	if q.Tier != "Basic" {
		t.Errorf("Tier = %q, want Basic", q.Tier)
	}
}

func TestResolver_UpdateCatalog(t *testing.T) {
	r := NewResolver(catalog.Default(), nil)

	if got := r.Providers(); len(got) != 3 {
		t.Fatalf("Providers() = %v", got)
	}

	r.UpdateCatalog(catalog.New("1.0.0", nil, nil, []catalog.ProviderRates{{
		Provider:           "Mistral",
		BaseRatePerMillion: 8,
		Tiers:              []catalog.VolumeTier{{Name: "Flat", Ceiling: catalog.Unbounded(), DiscountMultiplier: 1}},
	}}))

	if _, err := r.Resolve("OpenAI", 1); !errors.Is(err, catalog.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider after reload, got %v", err)
	}
	q, err := r.Resolve("Mistral", 1_000_000)
	if err != nil || q.Cost != 8 {
		t.Errorf("Resolve(Mistral) = %+v, %v", q, err)
	}
}
