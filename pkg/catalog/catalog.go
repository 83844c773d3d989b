package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownModelSelection is returned when a provider/model/version key
	// is not present in the catalog.
	ErrUnknownModelSelection = errors.New("unknown model selection")

	// ErrUnknownProvider is returned when a provider has no volume rates.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnknownUsageProfile is returned when a usage profile name is not
	// present in the catalog.
	ErrUnknownUsageProfile = errors.New("unknown usage profile")
)

// Catalog is immutable pricing reference data. All accessors return copies,
// so a Catalog can be shared freely between goroutines.
type Catalog struct {
	schemaVersion string
	entries       []ModelEntry
	usage         []UsageProfile
	rates         []ProviderRates

	index map[Key]int
}

// New builds a catalog from the given data. The slices are copied. New does
// not validate; call Validate for that.
func New(schemaVersion string, entries []ModelEntry, usage []UsageProfile, rates []ProviderRates) *Catalog {
	c := &Catalog{
		schemaVersion: schemaVersion,
		entries:       append([]ModelEntry(nil), entries...),
		usage:         append([]UsageProfile(nil), usage...),
		rates:         make([]ProviderRates, 0, len(rates)),
		index:         make(map[Key]int, len(entries)),
	}
	for _, r := range rates {
		c.rates = append(c.rates, r.clone())
	}
	for i, e := range c.entries {
		if _, dup := c.index[e.Key()]; !dup {
			c.index[e.Key()] = i
		}
	}
	return c
}

// SchemaVersion returns the catalog schema version.
func (c *Catalog) SchemaVersion() string {
	return c.schemaVersion
}

// Lookup returns the entry for key. Exact matches win; otherwise the first
// case-insensitive match is used.
func (c *Catalog) Lookup(key Key) (ModelEntry, error) {
	if i, ok := c.index[key]; ok {
		return c.entries[i], nil
	}
	for _, e := range c.entries {
		if strings.EqualFold(e.Provider, key.Provider) &&
			strings.EqualFold(e.Model, key.Model) &&
			strings.EqualFold(e.Version, key.Version) {
			return e, nil
		}
	}
	return ModelEntry{}, fmt.Errorf("%w: %q", ErrUnknownModelSelection, key.String())
}

// Usage returns the usage profile with the given name (case-insensitive).
func (c *Catalog) Usage(name string) (UsageProfile, error) {
	for _, u := range c.usage {
		if strings.EqualFold(u.Name, name) {
			return u, nil
		}
	}
	return UsageProfile{}, fmt.Errorf("%w: %q", ErrUnknownUsageProfile, name)
}

// Rates returns the volume rates for provider (case-insensitive).
func (c *Catalog) Rates(provider string) (ProviderRates, error) {
	for _, r := range c.rates {
		if strings.EqualFold(r.Provider, provider) {
			return r.clone(), nil
		}
	}
	return ProviderRates{}, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
}

// Entries returns all model entries in table order.
func (c *Catalog) Entries() []ModelEntry {
	return append([]ModelEntry(nil), c.entries...)
}

// UsageProfiles returns all usage profiles in table order.
func (c *Catalog) UsageProfiles() []UsageProfile {
	return append([]UsageProfile(nil), c.usage...)
}

// AllRates returns the volume rates of every provider in table order.
func (c *Catalog) AllRates() []ProviderRates {
	out := make([]ProviderRates, 0, len(c.rates))
	for _, r := range c.rates {
		out = append(out, r.clone())
	}
	return out
}

// Providers returns the distinct provider names of the model entries, in
// the order they first appear.
func (c *Catalog) Providers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range c.entries {
		if !seen[e.Provider] {
			seen[e.Provider] = true
			out = append(out, e.Provider)
		}
	}
	return out
}
