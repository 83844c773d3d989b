package costs

import (
	"sync"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/config"
	"mercator-hq/pricebook/pkg/processing/tokens"
)

// Calculator estimates costs against a catalog.
// It is thread-safe and supports hot-reload of the catalog.
type Calculator struct {
	catalog   *catalog.Catalog
	estimator tokens.Estimator

	// defaultUsage is used when a caller passes an empty usage name
	defaultUsage string
	currency     string

	// mu protects catalog for concurrent access
	mu sync.RWMutex
}

// NewCalculator creates a calculator over cat. A nil estimator uses the
// default four-characters-per-token estimator; a nil cfg uses the "medium"
// usage profile and USD.
func NewCalculator(cat *catalog.Catalog, estimator tokens.Estimator, cfg *config.EstimateConfig) *Calculator {
	if estimator == nil {
		estimator = tokens.NewSimpleEstimator(nil)
	}
	c := &Calculator{
		catalog:      cat,
		estimator:    estimator,
		defaultUsage: catalog.DefaultUsageProfile,
		currency:     DefaultCurrency,
	}
	if cfg != nil {
		if cfg.DefaultUsage != "" {
			c.defaultUsage = cfg.DefaultUsage
		}
		if cfg.Currency != "" {
			c.currency = cfg.Currency
		}
	}
	return c
}

// Catalog returns the catalog snapshot currently in use.
func (c *Calculator) Catalog() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// Estimate estimates tokens for promptText and responseText, then resolves
// the cost for key under the named usage profile.
func (c *Calculator) Estimate(key catalog.Key, promptText, responseText, usageName string) (CostEstimate, error) {
	return c.EstimateTokens(key, c.estimator.EstimateText(promptText), c.estimator.EstimateText(responseText), usageName)
}

// EstimateTokens resolves the cost for key from explicit token counts.
// Unknown keys and usage profiles return a zero-valued estimate carrying the
// requested key.
func (c *Calculator) EstimateTokens(key catalog.Key, promptTokens, responseTokens int, usageName string) (CostEstimate, error) {
	cat := c.Catalog()

	zero := c.ZeroEstimate(key)

	entry, err := cat.Lookup(key)
	if err != nil {
		return zero, err
	}
	usage, err := cat.Usage(c.usageName(usageName))
	if err != nil {
		return zero, err
	}

	est, err := ResolveCost(entry, promptTokens, responseTokens, usage)
	est.Currency = c.currency
	return est, err
}

// ZeroEstimate is the estimate returned alongside a failure for key.
func (c *Calculator) ZeroEstimate(key catalog.Key) CostEstimate {
	return CostEstimate{Key: key, Currency: c.currency}
}

// Compare estimates every catalog entry for the same prompt and response.
// Rows follow catalog order. Per-entry failures are reported on the row; the
// returned error is only set when the usage profile is unknown.
func (c *Calculator) Compare(promptText, responseText, usageName string) ([]Row, error) {
	return c.CompareTokens(c.estimator.EstimateText(promptText), c.estimator.EstimateText(responseText), usageName)
}

// CompareTokens is Compare for explicit token counts.
func (c *Calculator) CompareTokens(promptTokens, responseTokens int, usageName string) ([]Row, error) {
	cat := c.Catalog()

	usage, err := cat.Usage(c.usageName(usageName))
	if err != nil {
		return nil, err
	}

	entries := cat.Entries()
	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		est, err := ResolveCost(entry, promptTokens, responseTokens, usage)
		est.Currency = c.currency
		row := Row{Estimate: est, Err: err}
		if err != nil {
			row.Error = err.Error()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateCatalog replaces the catalog (hot-reload support).
// This is thread-safe and can be called while the calculator is in use.
func (c *Calculator) UpdateCatalog(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = cat
}

func (c *Calculator) usageName(name string) string {
	if name == "" {
		return c.defaultUsage
	}
	return name
}
