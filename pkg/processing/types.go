package processing

import (
	"errors"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/ingest"
	"mercator-hq/pricebook/pkg/processing/costs"
	"mercator-hq/pricebook/pkg/processing/tokens"
	"mercator-hq/pricebook/pkg/processing/volume"
)

// EstimateRequest selects one model variant and supplies the texts to
// estimate. An empty Usage selects the configured default profile.
//
// Prompt and Response are text: a string, []byte, a list of messages
// ([]string, or []interface{} holding only strings) or nil. Other values
// fail with tokens.ErrTokenEstimation.
type EstimateRequest struct {
	Key      catalog.Key
	Prompt   interface{}
	Response interface{}
	Usage    string
}

// CompareRequest supplies the texts to estimate against every catalog entry.
type CompareRequest struct {
	Prompt   interface{}
	Response interface{}
	Usage    string
}

// TierRequest resolves a volume tier for Provider. When TotalTokens is set
// it is used as is; otherwise the total is estimated from Prompt and
// Response.
type TierRequest struct {
	Provider    string
	TotalTokens *int
	Prompt      interface{}
	Response    interface{}
}

// IngestResult is the text extracted from an uploaded file.
type IngestResult struct {
	Name         string `json:"name" yaml:"name"`
	Text         string `json:"text" yaml:"text"`
	PromptTokens int    `json:"prompt_tokens" yaml:"prompt_tokens"`
}

// Error kinds used as metric labels and in API error bodies.
const (
	KindUnknownModel    = "unknown_model"
	KindUnknownProvider = "unknown_provider"
	KindUnknownUsage    = "unknown_usage"
	KindMalformedInput  = "malformed_input"
	KindTokenEstimation = "token_estimation"
	KindNoTier          = "no_tier"
	KindFileRead        = "file_read"
	KindInternal        = "internal"
)

// ErrorKind classifies an engine error. It returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, catalog.ErrUnknownModelSelection):
		return KindUnknownModel
	case errors.Is(err, catalog.ErrUnknownProvider):
		return KindUnknownProvider
	case errors.Is(err, catalog.ErrUnknownUsageProfile):
		return KindUnknownUsage
	case errors.Is(err, costs.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, tokens.ErrTokenEstimation):
		return KindTokenEstimation
	case errors.Is(err, volume.ErrNoTier):
		return KindNoTier
	case errors.Is(err, ingest.ErrFileRead):
		return KindFileRead
	default:
		return KindInternal
	}
}
