package costs

import (
	"errors"
	"fmt"

	"mercator-hq/pricebook/pkg/catalog"
)

// DefaultCurrency is the currency catalog prices are quoted in.
const DefaultCurrency = "USD"

// ErrMalformedInput is returned when token counts, unit costs or usage values
// cannot be used for arithmetic.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError describes which input was rejected.
type MalformedInputError struct {
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// CostEstimate is the derived result for one model and one set of inputs.
// Amounts encode to JSON as a number or as the string "self-hosted".
type CostEstimate struct {
	// Key identifies the priced model.
	Key catalog.Key `json:"key" yaml:"key"`

	PromptTokens   int `json:"prompt_tokens" yaml:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens" yaml:"response_tokens"`
	TotalTokens    int `json:"total_tokens" yaml:"total_tokens"`

	// WithinContextWindow is true when TotalTokens fits the context window.
	WithinContextWindow bool `json:"within_context_window" yaml:"within_context_window"`

	// WithinResponseLimit is true when ResponseTokens fits the response limit.
	WithinResponseLimit bool `json:"within_response_limit" yaml:"within_response_limit"`

	// CurrentRequestCost is the spend for this prompt and response.
	CurrentRequestCost catalog.Amount `json:"current_request_cost" yaml:"current_request_cost"`

	// ProjectedMonthlyCost is the spend projected from UsageProfile alone.
	ProjectedMonthlyCost catalog.Amount `json:"projected_monthly_cost" yaml:"projected_monthly_cost"`

	UsageProfile string `json:"usage_profile" yaml:"usage_profile"`
	Currency     string `json:"currency" yaml:"currency"`
}

// SelfHosted reports whether the estimate carries the self-hosted marker.
func (e CostEstimate) SelfHosted() bool {
	return e.CurrentRequestCost.IsSelfHosted()
}

// Row is one cell of a comparison grid. When Err is set the estimate is
// zero-valued apart from its key, and Error carries the message for encoders.
type Row struct {
	Estimate CostEstimate `json:"estimate" yaml:"estimate"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
	Err      error        `json:"-" yaml:"-"`
}
