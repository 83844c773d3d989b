package catalog

// DefaultSchemaVersion is the schema version of the compiled-in catalog.
const DefaultSchemaVersion = "1.0.0"

// DefaultUsageProfile is the usage profile selected when none is given.
const DefaultUsageProfile = "medium"

type versionSpec struct {
	name     string
	context  int
	response int
	input    Amount
	output   Amount
}

type familySpec struct {
	provider string
	model    string
	versions []versionSpec
}

// Prices are USD per 1000 tokens.
var defaultFamilies = []familySpec{
	{"OpenAI", "GPT-4", []versionSpec{
		{"4-Opus", 128000, 4096, Metered(0.01), Metered(0.03)},
		{"4-Onyx", 128000, 4096, Metered(0.015), Metered(0.045)},
		{"4O", 256000, 8192, Metered(0.02), Metered(0.06)},
		{"O1", 512000, 16384, Metered(0.025), Metered(0.075)},
	}},
	{"Anthropic", "Claude", []versionSpec{
		{"3-Opus", 200000, 4096, Metered(0.015), Metered(0.075)},
		{"3-Sonnet", 150000, 4096, Metered(0.003), Metered(0.015)},
		{"3-Haiku", 100000, 2048, Metered(0.0015), Metered(0.007)},
		{"3.5-Sonnet", 200000, 4096, Metered(0.005), Metered(0.025)},
	}},
	{"Google", "Gemini", []versionSpec{
		{"2.0-Ultra", 128000, 8192, Metered(0.012), Metered(0.024)},
		{"2.0-Pro", 64000, 4096, Metered(0.003), Metered(0.006)},
		{"1.5-Pro", 32000, 2048, Metered(0.002), Metered(0.004)},
	}},
	{"Meta", "Llama", []versionSpec{
		{"Llama-3.1-70b", 4096, 2048, SelfHosted(), SelfHosted()},
		{"Llama-3.1-13b", 4096, 2048, SelfHosted(), SelfHosted()},
		{"Llama-3.2-70b", 8192, 4096, SelfHosted(), SelfHosted()},
		{"Llama-3.2-13b", 8192, 4096, SelfHosted(), SelfHosted()},
	}},
	{"Mistral", "Mistral", []versionSpec{
		{"Large", 32768, 2048, Metered(0.007), Metered(0.021)},
		{"Medium", 32768, 2048, Metered(0.002), Metered(0.006)},
		{"Small", 32768, 2048, Metered(0.0006), Metered(0.0018)},
	}},
}

var defaultUsage = []UsageProfile{
	{Name: "low", MonthlyPrompts: 1000, AvgPromptTokens: 500, AvgResponseTokens: 1000},
	{Name: "medium", MonthlyPrompts: 5000, AvgPromptTokens: 1000, AvgResponseTokens: 2000},
	{Name: "high", MonthlyPrompts: 20000, AvgPromptTokens: 2000, AvgResponseTokens: 4000},
}

var defaultRates = []ProviderRates{
	{Provider: "OpenAI", BaseRatePerMillion: 20, Tiers: []VolumeTier{
		{Name: "Tier 1", Ceiling: Bounded(5_000_000), DiscountMultiplier: 1.0},
		{Name: "Tier 2", Ceiling: Bounded(50_000_000), DiscountMultiplier: 0.8},
		{Name: "Tier 3", Ceiling: Unbounded(), DiscountMultiplier: 0.6},
	}},
	{Provider: "Anthropic", BaseRatePerMillion: 15, Tiers: []VolumeTier{
		{Name: "Starter", Ceiling: Bounded(1_000_000), DiscountMultiplier: 1.0},
		{Name: "Growth", Ceiling: Bounded(10_000_000), DiscountMultiplier: 0.85},
		{Name: "Enterprise", Ceiling: Unbounded(), DiscountMultiplier: 0.7},
	}},
	{Provider: "Google", BaseRatePerMillion: 12, Tiers: []VolumeTier{
		{Name: "Basic", Ceiling: Bounded(2_000_000), DiscountMultiplier: 1.0},
		{Name: "Pro", Ceiling: Bounded(20_000_000), DiscountMultiplier: 0.75},
		{Name: "Enterprise", Ceiling: Unbounded(), DiscountMultiplier: 0.6},
	}},
}

var defaultCatalog = buildDefault()

func buildDefault() *Catalog {
	var entries []ModelEntry
	for _, f := range defaultFamilies {
		for _, v := range f.versions {
			entries = append(entries, ModelEntry{
				Provider:      f.provider,
				Model:         f.model,
				Version:       v.name,
				ContextWindow: Bounded(v.context),
				ResponseLimit: Bounded(v.response),
				InputCost:     v.input,
				OutputCost:    v.output,
			})
		}
	}
	return New(DefaultSchemaVersion, entries, defaultUsage, defaultRates)
}

// Default returns the compiled-in catalog. The returned value is shared and
// immutable.
func Default() *Catalog {
	return defaultCatalog
}
