package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on engine spans. Prompt and response text is never
// attached to a span; only token counts are.
const (
	AttrProvider       = attribute.Key("pricebook.provider")
	AttrModel          = attribute.Key("pricebook.model")
	AttrVersion        = attribute.Key("pricebook.version")
	AttrUsageProfile   = attribute.Key("pricebook.usage_profile")
	AttrPromptTokens   = attribute.Key("pricebook.tokens.prompt")
	AttrResponseTokens = attribute.Key("pricebook.tokens.response")
	AttrTotalTokens    = attribute.Key("pricebook.tokens.total")
	AttrSelfHosted     = attribute.Key("pricebook.self_hosted")
	AttrCost           = attribute.Key("pricebook.cost")
	AttrTier           = attribute.Key("pricebook.tier")
	AttrRequestID      = attribute.Key("pricebook.request_id")
)

// SetSelectionAttributes records the selected model variant.
func SetSelectionAttributes(span trace.Span, provider, model, version string) {
	span.SetAttributes(
		AttrProvider.String(provider),
		AttrModel.String(model),
		AttrVersion.String(version),
	)
}

// SetTokenAttributes records estimated token counts.
func SetTokenAttributes(span trace.Span, promptTokens, responseTokens int) {
	span.SetAttributes(
		AttrPromptTokens.Int(promptTokens),
		AttrResponseTokens.Int(responseTokens),
		AttrTotalTokens.Int(promptTokens+responseTokens),
	)
}

// SetCostAttributes records a resolved cost. Self-hosted results carry the
// flag and no cost value.
func SetCostAttributes(span trace.Span, cost float64, selfHosted bool) {
	span.SetAttributes(AttrSelfHosted.Bool(selfHosted))
	if !selfHosted {
		span.SetAttributes(AttrCost.Float64(cost))
	}
}

// SetTierAttributes records a volume tier resolution.
func SetTierAttributes(span trace.Span, provider, tier string, totalTokens int) {
	span.SetAttributes(
		AttrProvider.String(provider),
		AttrTier.String(tier),
		AttrTotalTokens.Int(totalTokens),
	)
}
