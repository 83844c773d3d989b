package tokens

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// DefaultCharsPerToken is the characters-per-token ratio used when none is
// configured.
const DefaultCharsPerToken = 4

// ErrTokenEstimation is returned when a value cannot be treated as text.
var ErrTokenEstimation = errors.New("token estimation failed")

// EstimationError describes a value that could not be estimated.
type EstimationError struct {
	// Type is the Go type of the rejected value.
	Type string
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("%s: unsupported input type %s", ErrTokenEstimation, e.Type)
}

func (e *EstimationError) Unwrap() error {
	return ErrTokenEstimation
}

// Estimator estimates token counts for text.
type Estimator interface {
	// EstimateText estimates tokens for a single text string.
	EstimateText(text string) int

	// EstimateValue estimates tokens for a value that should hold text.
	// Non-text values return an error wrapping ErrTokenEstimation.
	EstimateValue(v interface{}) (int, error)
}

// EstimateTokens returns ceil(chars(text) / DefaultCharsPerToken).
func EstimateTokens(text string) int {
	return estimate(text, DefaultCharsPerToken)
}

func estimate(text string, charsPerToken int) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	return (chars + charsPerToken - 1) / charsPerToken
}
