package tokens

import (
	"fmt"

	"mercator-hq/pricebook/pkg/config"
)

// SimpleEstimator implements character-based token estimation with a fixed
// characters-per-token ratio.
type SimpleEstimator struct {
	charsPerToken int
}

// NewSimpleEstimator creates an estimator from configuration. A nil config or
// a non-positive ratio falls back to DefaultCharsPerToken.
func NewSimpleEstimator(cfg *config.TokensConfig) *SimpleEstimator {
	ratio := DefaultCharsPerToken
	if cfg != nil && cfg.CharsPerToken > 0 {
		ratio = cfg.CharsPerToken
	}
	return &SimpleEstimator{charsPerToken: ratio}
}

// CharsPerToken returns the ratio in use.
func (e *SimpleEstimator) CharsPerToken() int {
	return e.charsPerToken
}

// EstimateText estimates tokens for a single text string.
func (e *SimpleEstimator) EstimateText(text string) int {
	return estimate(text, e.charsPerToken)
}

// EstimateValue estimates tokens for text held in common forms. A nil value
// counts as empty text. Slices of strings, such as a list of chat messages,
// are estimated element by element and summed. A []interface{} is accepted
// when every element is a string, which is how JSON arrays decode.
func (e *SimpleEstimator) EstimateValue(v interface{}) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		return e.EstimateText(x), nil
	case []byte:
		return e.EstimateText(string(x)), nil
	case []string:
		total := 0
		for _, s := range x {
			total += e.EstimateText(s)
		}
		return total, nil
	case []interface{}:
		total := 0
		for i, el := range x {
			s, ok := el.(string)
			if !ok {
				return 0, &EstimationError{Type: fmt.Sprintf("%T at index %d", el, i)}
			}
			total += e.EstimateText(s)
		}
		return total, nil
	case fmt.Stringer:
		return e.EstimateText(x.String()), nil
	default:
		return 0, &EstimationError{Type: fmt.Sprintf("%T", v)}
	}
}
