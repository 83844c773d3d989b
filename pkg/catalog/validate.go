package catalog

import (
	"fmt"
	"math"
	"strings"
)

// FieldError is a validation problem at a specific catalog location,
// e.g. "rates[OpenAI].tiers[1].ceiling".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every problem found in a catalog.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "catalog validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("catalog validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("catalog validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the invariants the resolvers rely on and returns a
// ValidationError listing every violation, or nil.
func Validate(c *Catalog) error {
	if c == nil {
		return ValidationError{Errors: []FieldError{{Field: "catalog", Message: "is nil"}}}
	}

	var errs []FieldError
	errs = append(errs, validateEntries(c.entries)...)
	errs = append(errs, validateUsage(c.usage)...)
	errs = append(errs, validateRates(c.rates)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateEntries(entries []ModelEntry) []FieldError {
	var errs []FieldError
	if len(entries) == 0 {
		errs = append(errs, FieldError{Field: "entries", Message: "at least one model entry is required"})
	}

	seen := make(map[Key]bool, len(entries))
	for _, e := range entries {
		field := fmt.Sprintf("entries[%s]", e.Key())

		if e.Provider == "" || e.Model == "" || e.Version == "" {
			errs = append(errs, FieldError{Field: field, Message: "provider, model and version are required"})
		}
		if seen[e.Key()] {
			errs = append(errs, FieldError{Field: field, Message: "duplicate entry"})
		}
		seen[e.Key()] = true

		if n, ok := e.ContextWindow.Value(); ok && n <= 0 {
			errs = append(errs, FieldError{Field: field + ".context_window", Message: "must be positive or unbounded"})
		}
		if n, ok := e.ResponseLimit.Value(); ok && n <= 0 {
			errs = append(errs, FieldError{Field: field + ".response_limit", Message: "must be positive or unbounded"})
		}

		if e.InputCost.IsSelfHosted() != e.OutputCost.IsSelfHosted() {
			errs = append(errs, FieldError{Field: field, Message: "input_cost and output_cost must both be metered or both be self-hosted"})
		}
		if !e.InputCost.valid() {
			errs = append(errs, FieldError{Field: field + ".input_cost", Message: "must be a finite non-negative number"})
		}
		if !e.OutputCost.valid() {
			errs = append(errs, FieldError{Field: field + ".output_cost", Message: "must be a finite non-negative number"})
		}
	}
	return errs
}

func validateUsage(profiles []UsageProfile) []FieldError {
	var errs []FieldError
	if len(profiles) == 0 {
		errs = append(errs, FieldError{Field: "usage_profiles", Message: "at least one usage profile is required"})
	}

	seen := make(map[string]bool, len(profiles))
	for _, u := range profiles {
		field := fmt.Sprintf("usage_profiles[%s]", u.Name)
		if u.Name == "" {
			errs = append(errs, FieldError{Field: field, Message: "name is required"})
		}
		if seen[strings.ToLower(u.Name)] {
			errs = append(errs, FieldError{Field: field, Message: "duplicate usage profile"})
		}
		seen[strings.ToLower(u.Name)] = true

		if u.MonthlyPrompts < 0 || u.AvgPromptTokens < 0 || u.AvgResponseTokens < 0 {
			errs = append(errs, FieldError{Field: field, Message: "counts must be non-negative"})
		}
	}
	return errs
}

// validateRates enforces the tier ordering contract: bounded ceilings are
// strictly ascending and exactly one unbounded tier terminates the list.
func validateRates(rates []ProviderRates) []FieldError {
	var errs []FieldError

	seen := make(map[string]bool, len(rates))
	for _, r := range rates {
		field := fmt.Sprintf("rates[%s]", r.Provider)
		if r.Provider == "" {
			errs = append(errs, FieldError{Field: field, Message: "provider is required"})
		}
		if seen[strings.ToLower(r.Provider)] {
			errs = append(errs, FieldError{Field: field, Message: "duplicate provider"})
		}
		seen[strings.ToLower(r.Provider)] = true

		if math.IsNaN(r.BaseRatePerMillion) || math.IsInf(r.BaseRatePerMillion, 0) || r.BaseRatePerMillion < 0 {
			errs = append(errs, FieldError{Field: field + ".base_rate_per_million", Message: "must be a finite non-negative number"})
		}

		if len(r.Tiers) == 0 {
			errs = append(errs, FieldError{Field: field + ".tiers", Message: "at least one tier is required"})
			continue
		}

		prev := -1
		unbounded := 0
		for i, t := range r.Tiers {
			tf := fmt.Sprintf("%s.tiers[%d]", field, i)
			if t.Name == "" {
				errs = append(errs, FieldError{Field: tf + ".name", Message: "is required"})
			}
			if t.DiscountMultiplier <= 0 || t.DiscountMultiplier > 1 || math.IsNaN(t.DiscountMultiplier) {
				errs = append(errs, FieldError{Field: tf + ".discount_multiplier", Message: "must be in (0, 1]"})
			}

			ceiling, bounded := t.Ceiling.Value()
			if !bounded {
				unbounded++
				if i != len(r.Tiers)-1 {
					errs = append(errs, FieldError{Field: tf + ".ceiling", Message: "only the last tier may be unbounded"})
				}
				continue
			}
			if ceiling <= 0 {
				errs = append(errs, FieldError{Field: tf + ".ceiling", Message: "must be positive"})
			}
			if ceiling <= prev {
				errs = append(errs, FieldError{Field: tf + ".ceiling", Message: fmt.Sprintf("must be greater than the previous ceiling %d", prev)})
			}
			prev = ceiling
		}
		if unbounded != 1 {
			errs = append(errs, FieldError{Field: field + ".tiers", Message: fmt.Sprintf("exactly one unbounded tier is required, found %d", unbounded)})
		}
	}
	return errs
}
