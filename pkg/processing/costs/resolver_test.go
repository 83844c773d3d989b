package costs

import (
	"errors"
	"math"
	"testing"

	"mercator-hq/pricebook/pkg/catalog"
)

func opusEntry() catalog.ModelEntry {
	return catalog.ModelEntry{
		Provider:      "Anthropic",
		Model:         "Claude",
		Version:       "3-Opus",
		ContextWindow: catalog.Bounded(200000),
		ResponseLimit: catalog.Bounded(4096),
		InputCost:     catalog.Metered(0.015),
		OutputCost:    catalog.Metered(0.075),
	}
}

func llamaEntry() catalog.ModelEntry {
	return catalog.ModelEntry{
		Provider:      "Meta",
		Model:         "Llama",
		Version:       "Llama-3.1-70b",
		ContextWindow: catalog.Bounded(4096),
		ResponseLimit: catalog.Bounded(2048),
		InputCost:     catalog.SelfHosted(),
		OutputCost:    catalog.SelfHosted(),
	}
}

var medium = catalog.UsageProfile{Name: "medium", MonthlyPrompts: 5000, AvgPromptTokens: 1000, AvgResponseTokens: 2000}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveCost_CurrentRequest(t *testing.T) {
	est, err := ResolveCost(opusEntry(), 100, 50, medium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.TotalTokens != 150 {
		t.Errorf("TotalTokens = %d, want 150", est.TotalTokens)
	}
	cost, ok := est.CurrentRequestCost.Value()
	if !ok {
		t.Fatal("expected metered current cost")
	}
	if !approxEqual(cost, 0.00525) {
		t.Errorf("CurrentRequestCost = %v, want 0.00525", cost)
	}
	if est.Currency != DefaultCurrency {
		t.Errorf("Currency = %q", est.Currency)
	}
}

func TestResolveCost_ProjectionUsesProfileOnly(t *testing.T) {
	a, err := ResolveCost(opusEntry(), 1, 1, medium)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ResolveCost(opusEntry(), 150000, 4000, medium)
	if err != nil {
		t.Fatal(err)
	}

	pa, _ := a.ProjectedMonthlyCost.Value()
	pb, _ := b.ProjectedMonthlyCost.Value()
	if pa != pb {
		t.Errorf("projection changed with request tokens: %v vs %v", pa, pb)
	}
	// 5000 * (1000*0.015 + 2000*0.075) / 1000
	if !approxEqual(pa, 825) {
		t.Errorf("ProjectedMonthlyCost = %v, want 825", pa)
	}
	if a.UsageProfile != "medium" {
		t.Errorf("UsageProfile = %q", a.UsageProfile)
	}
}

func TestResolveCost_SelfHosted(t *testing.T) {
	tests := []struct {
		name     string
		prompt   int
		response int
	}{
		{"zero tokens", 0, 0},
		{"small", 10, 10},
		{"over the window", 100000, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := ResolveCost(llamaEntry(), tt.prompt, tt.response, medium)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !est.CurrentRequestCost.IsSelfHosted() || !est.ProjectedMonthlyCost.IsSelfHosted() {
				t.Errorf("expected self-hosted marker for both costs, got %v / %v",
					est.CurrentRequestCost, est.ProjectedMonthlyCost)
			}
			if !est.SelfHosted() {
				t.Error("SelfHosted() = false")
			}
		})
	}
}

func TestResolveCost_Limits(t *testing.T) {
	tests := []struct {
		name         string
		entry        func() catalog.ModelEntry
		prompt       int
		response     int
		wantContext  bool
		wantResponse bool
	}{
		{name: "well within", entry: opusEntry, prompt: 100, response: 100, wantContext: true, wantResponse: true},
		{name: "context boundary inclusive", entry: opusEntry, prompt: 196000, response: 4000, wantContext: true, wantResponse: true},
		{name: "context exceeded by one", entry: opusEntry, prompt: 196001, response: 4000, wantContext: false, wantResponse: true},
		{name: "response boundary inclusive", entry: opusEntry, prompt: 0, response: 4096, wantContext: true, wantResponse: true},
		{name: "response exceeded", entry: opusEntry, prompt: 0, response: 4097, wantContext: true, wantResponse: false},
		{
			name: "unbounded limits",
			entry: func() catalog.ModelEntry {
				e := opusEntry()
				e.ContextWindow = catalog.Unbounded()
				e.ResponseLimit = catalog.Unbounded()
				return e
			},
			prompt: 1 << 30, response: 1 << 30, wantContext: true, wantResponse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := ResolveCost(tt.entry(), tt.prompt, tt.response, medium)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if est.WithinContextWindow != tt.wantContext {
				t.Errorf("WithinContextWindow = %v, want %v", est.WithinContextWindow, tt.wantContext)
			}
			if est.WithinResponseLimit != tt.wantResponse {
				t.Errorf("WithinResponseLimit = %v, want %v", est.WithinResponseLimit, tt.wantResponse)
			}
		})
	}
}

func TestResolveCost_Deterministic(t *testing.T) {
	a, errA := ResolveCost(opusEntry(), 1234, 567, medium)
	b, errB := ResolveCost(opusEntry(), 1234, 567, medium)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("results differ:\n%+v\n%+v", a, b)
	}

	ca, _ := a.CurrentRequestCost.Value()
	cb, _ := b.CurrentRequestCost.Value()
	if math.Float64bits(ca) != math.Float64bits(cb) {
		t.Errorf("current cost not bit-identical: %v vs %v", ca, cb)
	}
}

func TestResolveCost_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		entry    func() catalog.ModelEntry
		prompt   int
		response int
		usage    catalog.UsageProfile
		field    string
	}{
		{name: "negative prompt", entry: opusEntry, prompt: -1, usage: medium, field: "prompt_tokens"},
		{name: "negative response", entry: opusEntry, response: -5, usage: medium, field: "response_tokens"},
		{
			name:  "negative usage",
			entry: opusEntry,
			usage: catalog.UsageProfile{Name: "bad", MonthlyPrompts: -1},
			field: "usage.monthly_prompts",
		},
		{
			name: "mixed pair",
			entry: func() catalog.ModelEntry {
				e := opusEntry()
				e.OutputCost = catalog.SelfHosted()
				return e
			},
			usage: medium,
			field: "output_cost",
		},
		{
			name: "NaN input cost",
			entry: func() catalog.ModelEntry {
				e := opusEntry()
				e.InputCost = catalog.Metered(math.NaN())
				return e
			},
			usage: medium,
			field: "input_cost",
		},
		{
			name: "infinite output cost",
			entry: func() catalog.ModelEntry {
				e := opusEntry()
				e.OutputCost = catalog.Metered(math.Inf(1))
				return e
			},
			usage: medium,
			field: "output_cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := ResolveCost(tt.entry(), tt.prompt, tt.response, tt.usage)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			var merr *MalformedInputError
			if !errors.As(err, &merr) || merr.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}

			if est.TotalTokens != 0 || est.WithinContextWindow || est.WithinResponseLimit {
				t.Errorf("expected zero-valued estimate, got %+v", est)
			}
			if est.CurrentRequestCost.IsSelfHosted() {
				t.Error("error estimate must not carry the self-hosted marker")
			}
			if v, ok := est.CurrentRequestCost.Value(); !ok || v != 0 {
				t.Errorf("CurrentRequestCost = %v, want metered 0", est.CurrentRequestCost)
			}
		})
	}
}
