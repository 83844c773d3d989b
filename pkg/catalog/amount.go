package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// SelfHostedLabel is the wire form of a self-hosted Amount.
	SelfHostedLabel = "self-hosted"

	// UnboundedLabel is the wire form of an unbounded Limit.
	UnboundedLabel = "unbounded"
)

// Amount is a price or cost that is either metered (a currency value) or
// self-hosted (no metered price). The zero value is Metered(0).
type Amount struct {
	value      float64
	selfHosted bool
}

// Metered returns a metered Amount.
func Metered(v float64) Amount {
	return Amount{value: v}
}

// SelfHosted returns the self-hosted marker.
func SelfHosted() Amount {
	return Amount{selfHosted: true}
}

// Value returns the metered value. ok is false for self-hosted amounts.
func (a Amount) Value() (v float64, ok bool) {
	if a.selfHosted {
		return 0, false
	}
	return a.value, true
}

// IsSelfHosted reports whether a is the self-hosted marker.
func (a Amount) IsSelfHosted() bool {
	return a.selfHosted
}

// String formats metered amounts with four decimals, matching the
// per-request display precision.
func (a Amount) String() string {
	if a.selfHosted {
		return SelfHostedLabel
	}
	return strconv.FormatFloat(a.value, 'f', 4, 64)
}

// valid reports whether a metered value is usable in arithmetic.
func (a Amount) valid() bool {
	if a.selfHosted {
		return true
	}
	return !math.IsNaN(a.value) && !math.IsInf(a.value, 0) && a.value >= 0
}

// MarshalJSON encodes metered amounts as numbers and self-hosted as a string.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.selfHosted {
		return json.Marshal(SelfHostedLabel)
	}
	if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
		return nil, fmt.Errorf("cannot encode non-finite amount %v", a.value)
	}
	return []byte(strconv.FormatFloat(a.value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number or the self-hosted label.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return a.parseString(s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = Metered(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (interface{}, error) {
	if a.selfHosted {
		return SelfHostedLabel, nil
	}
	return a.value, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	if node.Tag == "!!str" {
		return a.parseString(node.Value)
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	*a = Metered(v)
	return nil
}

func (a *Amount) parseString(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, SelfHostedLabel) {
		*a = SelfHosted()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: expected a number or %q", s, SelfHostedLabel)
	}
	*a = Metered(v)
	return nil
}

// Limit is a token ceiling that is either bounded or unbounded.
// The zero value is Bounded(0).
type Limit struct {
	tokens    int
	unbounded bool
}

// Bounded returns a Limit with the given ceiling.
func Bounded(tokens int) Limit {
	return Limit{tokens: tokens}
}

// Unbounded returns a Limit with no ceiling.
func Unbounded() Limit {
	return Limit{unbounded: true}
}

// Value returns the ceiling. ok is false for unbounded limits.
func (l Limit) Value() (tokens int, ok bool) {
	if l.unbounded {
		return 0, false
	}
	return l.tokens, true
}

// IsUnbounded reports whether l has no ceiling.
func (l Limit) IsUnbounded() bool {
	return l.unbounded
}

// Allows reports whether n tokens fit within the limit. The comparison is
// inclusive: a count equal to the ceiling is allowed.
func (l Limit) Allows(n int) bool {
	return l.unbounded || n <= l.tokens
}

func (l Limit) String() string {
	if l.unbounded {
		return UnboundedLabel
	}
	return strconv.Itoa(l.tokens)
}

// MarshalJSON implements json.Marshaler.
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unbounded {
		return json.Marshal(UnboundedLabel)
	}
	return []byte(strconv.Itoa(l.tokens)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Limit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Unbounded()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return l.parseString(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid limit %s: %w", data, err)
	}
	*l = Bounded(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Limit) MarshalYAML() (interface{}, error) {
	if l.unbounded {
		return UnboundedLabel, nil
	}
	return l.tokens, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Limit) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: limit must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*l = Unbounded()
		return nil
	case "!!str":
		return l.parseString(node.Value)
	}
	var n int
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("line %d: invalid limit %q", node.Line, node.Value)
	}
	*l = Bounded(n)
	return nil
}

func (l *Limit) parseString(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, UnboundedLabel) {
		*l = Unbounded()
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid limit %q: expected an integer or %q", s, UnboundedLabel)
	}
	*l = Bounded(n)
	return nil
}
