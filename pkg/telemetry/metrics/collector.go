package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/pricebook/pkg/config"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns every Prometheus metric exported by the engine. All Record
// methods are no-ops when metrics are disabled in configuration.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	estimatesTotal   *prometheus.CounterVec
	estimateTokens   *prometheus.HistogramVec
	estimateCost     *prometheus.HistogramVec
	tierResolutions  *prometheus.CounterVec
	engineErrors     *prometheus.CounterVec
	ingestFiles      *prometheus.CounterVec
	catalogReloads   *prometheus.CounterVec
	catalogEntries   prometheus.Gauge
	selfHostedTotals *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one; a nil cfg uses the package defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.Default().Telemetry.Metrics
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.TokenCountBuckets) == 0 {
		cfg.TokenCountBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000}
	}
	if len(cfg.CostBuckets) == 0 {
		cfg.CostBuckets = []float64{0.0001, 0.001, 0.01, 0.1, 1, 10}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimates_total",
				Help:      "Cost estimates by provider, model and outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		estimateTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_tokens",
				Help:      "Estimated prompt plus response tokens per estimate",
				Buckets:   cfg.TokenCountBuckets,
			},
			[]string{"provider"},
		),
		estimateCost: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_cost_usd",
				Help:      "Estimated current request cost of metered models",
				Buckets:   cfg.CostBuckets,
			},
			[]string{"provider"},
		),
		tierResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "tier_resolutions_total",
				Help:      "Volume tier resolutions by provider and tier",
			},
			[]string{"provider", "tier"},
		),
		engineErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "engine_errors_total",
				Help:      "Engine errors by kind",
			},
			[]string{"kind"},
		),
		ingestFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ingest_files_total",
				Help:      "Ingested files by extension and outcome",
			},
			[]string{"ext", "outcome"},
		),
		catalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Catalog reload attempts by outcome",
			},
			[]string{"outcome"},
		),
		catalogEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_entries",
				Help:      "Model entries in the active catalog",
			},
		),
		selfHostedTotals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "self_hosted_estimates_total",
				Help:      "Estimates answered with the self-hosted marker",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		c.estimatesTotal,
		c.estimateTokens,
		c.estimateCost,
		c.tierResolutions,
		c.engineErrors,
		c.ingestFiles,
		c.catalogReloads,
		c.catalogEntries,
		c.selfHostedTotals,
	)

	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordEstimate records one cost estimate. Cost is ignored for
// self-hosted estimates, which have no monetary value.
//
// Example:
//
//	collector.RecordEstimate("Anthropic", "Claude", metrics.OutcomeSuccess, 300, 0.00525, false)
func (c *Collector) RecordEstimate(provider, model, outcome string, tokens int, cost float64, selfHosted bool) {
	if !c.Enabled() {
		return
	}

	c.estimatesTotal.WithLabelValues(provider, model, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}

	c.estimateTokens.WithLabelValues(provider).Observe(float64(tokens))
	if selfHosted {
		c.selfHostedTotals.WithLabelValues(provider).Inc()
		return
	}
	c.estimateCost.WithLabelValues(provider).Observe(cost)
}

// RecordTier records a successful volume tier resolution.
func (c *Collector) RecordTier(provider, tier string) {
	if !c.Enabled() {
		return
	}
	c.tierResolutions.WithLabelValues(provider, tier).Inc()
}

// RecordError increments the engine error counter. Kind is a short stable
// label such as "unknown_model" or "malformed_input".
func (c *Collector) RecordError(kind string) {
	if !c.Enabled() {
		return
	}
	c.engineErrors.WithLabelValues(kind).Inc()
}

// RecordIngest records an uploaded file read attempt.
func (c *Collector) RecordIngest(ext, outcome string) {
	if !c.Enabled() {
		return
	}
	if ext == "" {
		ext = "none"
	}
	c.ingestFiles.WithLabelValues(ext, outcome).Inc()
}

// RecordCatalogReload records a catalog reload attempt.
func (c *Collector) RecordCatalogReload(outcome string) {
	if !c.Enabled() {
		return
	}
	c.catalogReloads.WithLabelValues(outcome).Inc()
}

// SetCatalogEntries sets the active catalog size.
func (c *Collector) SetCatalogEntries(n int) {
	if !c.Enabled() {
		return
	}
	c.catalogEntries.Set(float64(n))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
