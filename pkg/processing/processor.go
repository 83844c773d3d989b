package processing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/config"
	"mercator-hq/pricebook/pkg/ingest"
	"mercator-hq/pricebook/pkg/processing/costs"
	"mercator-hq/pricebook/pkg/processing/tokens"
	"mercator-hq/pricebook/pkg/processing/volume"
	"mercator-hq/pricebook/pkg/telemetry/metrics"
	"mercator-hq/pricebook/pkg/telemetry/tracing"
)

const unknownLabel = "unknown"

// Processor is the engine entry point shared by the CLI and the HTTP API.
// It combines token estimation, cost and tier resolution and file ingest,
// and records metrics and spans for each call. It is thread-safe.
type Processor struct {
	estimator  tokens.Estimator
	calculator *costs.Calculator
	resolver   *volume.Resolver
	reader     *ingest.Reader

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithMetrics records engine metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Processor) { p.metrics = c }
}

// WithTracer creates spans with t.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

// WithLogger logs with l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor creates a processor over cat. A nil cat uses the built-in
// catalog and a nil cfg uses config.Default().
func NewProcessor(cat *catalog.Catalog, cfg *config.Config, opts ...Option) *Processor {
	if cat == nil {
		cat = catalog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	estimator := tokens.NewSimpleEstimator(&cfg.Tokens)
	p := &Processor{
		estimator:  estimator,
		calculator: costs.NewCalculator(cat, estimator, &cfg.Estimate),
		resolver:   volume.NewResolver(cat, estimator),
		reader:     ingest.NewReader(&cfg.Ingest),
		tracer:     tracing.Noop(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "processing")
	p.metrics.SetCatalogEntries(len(cat.Entries()))
	return p
}

// Catalog returns the catalog currently in use.
func (p *Processor) Catalog() *catalog.Catalog {
	return p.calculator.Catalog()
}

// UpdateCatalog swaps the catalog used by every component.
func (p *Processor) UpdateCatalog(cat *catalog.Catalog) {
	p.calculator.UpdateCatalog(cat)
	p.resolver.UpdateCatalog(cat)
	p.metrics.SetCatalogEntries(len(cat.Entries()))
}

// Providers lists the providers that have volume rates.
func (p *Processor) Providers() []string {
	return p.resolver.Providers()
}

// Estimator returns the token estimator.
func (p *Processor) Estimator() tokens.Estimator {
	return p.estimator
}

// Estimate estimates the cost of one request for one model variant. On
// error the returned estimate is zero-valued apart from its key and
// currency, so callers can still render it.
func (p *Processor) Estimate(ctx context.Context, req EstimateRequest) (costs.CostEstimate, error) {
	_, span := p.tracer.Start(ctx, "processing.Estimate")
	defer span.End()
	tracing.SetSelectionAttributes(span, req.Key.Provider, req.Key.Model, req.Key.Version)

	est, err := p.estimate(req)
	p.observeEstimate(est, err)
	tracing.SetStatus(span, err)
	if err != nil {
		p.logger.WarnContext(ctx, "estimate failed",
			"key", req.Key.String(),
			"kind", ErrorKind(err),
			"error", err,
		)
		return est, err
	}

	tracing.SetTokenAttributes(span, est.PromptTokens, est.ResponseTokens)
	cost, _ := est.CurrentRequestCost.Value()
	tracing.SetCostAttributes(span, cost, est.SelfHosted())

	p.logger.DebugContext(ctx, "estimate resolved",
		"key", est.Key.String(),
		"total_tokens", est.TotalTokens,
		"self_hosted", est.SelfHosted(),
	)
	return est, nil
}

// Compare estimates every catalog entry. Rows follow catalog order and
// carry their own errors; the returned error is only set for an unknown
// usage profile.
func (p *Processor) Compare(ctx context.Context, req CompareRequest) ([]costs.Row, error) {
	_, span := p.tracer.Start(ctx, "processing.Compare")
	defer span.End()

	var rows []costs.Row
	promptTokens, responseTokens, err := p.countTokens(req.Prompt, req.Response)
	if err == nil {
		rows, err = p.calculator.CompareTokens(promptTokens, responseTokens, req.Usage)
	}
	tracing.SetStatus(span, err)
	if err != nil {
		p.metrics.RecordError(ErrorKind(err))
		p.logger.WarnContext(ctx, "compare failed", "kind", ErrorKind(err), "error", err)
		return nil, err
	}

	for _, row := range rows {
		p.observeEstimate(row.Estimate, row.Err)
	}
	if len(rows) > 0 {
		tracing.SetTokenAttributes(span, rows[0].Estimate.PromptTokens, rows[0].Estimate.ResponseTokens)
	}
	p.logger.DebugContext(ctx, "comparison resolved", "rows", len(rows))
	return rows, nil
}

// ResolveTier resolves the volume tier and cost for a provider.
func (p *Processor) ResolveTier(ctx context.Context, req TierRequest) (volume.Quote, error) {
	_, span := p.tracer.Start(ctx, "processing.ResolveTier")
	defer span.End()

	var (
		quote volume.Quote
		err   error
	)
	if req.TotalTokens != nil {
		quote, err = p.resolver.Resolve(req.Provider, *req.TotalTokens)
	} else {
		var promptTokens, responseTokens int
		promptTokens, responseTokens, err = p.countTokens(req.Prompt, req.Response)
		if err == nil {
			quote, err = p.resolver.Resolve(req.Provider, promptTokens+responseTokens)
		}
	}
	tracing.SetStatus(span, err)
	if err != nil {
		p.metrics.RecordError(ErrorKind(err))
		p.logger.WarnContext(ctx, "tier resolution failed",
			"provider", req.Provider,
			"kind", ErrorKind(err),
			"error", err,
		)
		return volume.Quote{}, err
	}

	tracing.SetTierAttributes(span, quote.Provider, quote.Tier, quote.TotalTokens)
	p.metrics.RecordTier(quote.Provider, quote.Tier)
	return quote, nil
}

// Ingest extracts text from an uploaded file and estimates its tokens. The
// content is held in memory only.
func (p *Processor) Ingest(ctx context.Context, name string, src io.Reader) (IngestResult, error) {
	_, span := p.tracer.Start(ctx, "processing.Ingest")
	defer span.End()

	ext := ingestLabel(name)
	text, err := p.reader.Read(name, src)
	tracing.SetStatus(span, err)
	if err != nil {
		p.metrics.RecordIngest(ext, metrics.OutcomeError)
		p.metrics.RecordError(ErrorKind(err))
		p.logger.WarnContext(ctx, "file ingest failed", "ext", ext, "error", err)
		return IngestResult{Name: name}, err
	}

	p.metrics.RecordIngest(ext, metrics.OutcomeSuccess)
	result := IngestResult{
		Name:         name,
		Text:         text,
		PromptTokens: p.estimator.EstimateText(text),
	}
	tracing.SetTokenAttributes(span, result.PromptTokens, 0)
	return result, nil
}

func (p *Processor) estimate(req EstimateRequest) (costs.CostEstimate, error) {
	promptTokens, responseTokens, err := p.countTokens(req.Prompt, req.Response)
	if err != nil {
		return p.calculator.ZeroEstimate(req.Key), err
	}
	return p.calculator.EstimateTokens(req.Key, promptTokens, responseTokens, req.Usage)
}

// countTokens estimates prompt and response, which may be any value the
// estimator accepts as text.
func (p *Processor) countTokens(prompt, response interface{}) (int, int, error) {
	promptTokens, err := p.estimator.EstimateValue(prompt)
	if err != nil {
		return 0, 0, fmt.Errorf("prompt: %w", err)
	}
	responseTokens, err := p.estimator.EstimateValue(response)
	if err != nil {
		return 0, 0, fmt.Errorf("response: %w", err)
	}
	return promptTokens, responseTokens, nil
}

// estimateLabels returns the provider and model labels for key, spelled as
// in the catalog. Keys the catalog does not know are labelled "unknown".
func (p *Processor) estimateLabels(key catalog.Key) (string, string) {
	entry, err := p.Catalog().Lookup(key)
	if err != nil {
		return unknownLabel, unknownLabel
	}
	return entry.Provider, entry.Model
}

// ingestLabel returns the extension of name for metric labels. Unsupported
// extensions share the "other" label.
func ingestLabel(name string) string {
	ext := ingest.Ext(name)
	for _, supported := range ingest.SupportedExtensions() {
		if ext == supported {
			return ext
		}
	}
	if ext == "" {
		return ""
	}
	return "other"
}

func (p *Processor) observeEstimate(est costs.CostEstimate, err error) {
	if err != nil {
		provider, model := p.estimateLabels(est.Key)
		p.metrics.RecordEstimate(provider, model, metrics.OutcomeError, 0, 0, false)
		p.metrics.RecordError(ErrorKind(err))
		return
	}
	cost, _ := est.CurrentRequestCost.Value()
	provider, model := p.estimateLabels(est.Key)
	p.metrics.RecordEstimate(provider, model, metrics.OutcomeSuccess, est.TotalTokens, cost, est.SelfHosted())
}
