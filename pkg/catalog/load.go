package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the semver constraint a catalog file's schema_version
// must satisfy.
const SupportedSchema = "^1.0.0"

// Format is a catalog file encoding.
type Format string

const (
	// FormatYAML is the YAML catalog encoding.
	FormatYAML Format = "yaml"
	// FormatTOML is the TOML catalog encoding.
	FormatTOML Format = "toml"
)

// FormatFromPath infers the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q (expected .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// fileCatalog is the on-disk layout: providers nest model families, which
// nest versions. Optional limits are pointers so an omitted field can be
// told apart from zero.
type fileCatalog struct {
	SchemaVersion string         `yaml:"schema_version"`
	Providers     []fileProvider `yaml:"providers"`
	UsageProfiles []UsageProfile `yaml:"usage_profiles"`
	VolumeRates   []fileRates    `yaml:"volume_rates"`
}

type fileProvider struct {
	Name   string      `yaml:"name"`
	Models []fileModel `yaml:"models"`
}

type fileModel struct {
	Name     string        `yaml:"name"`
	Versions []fileVersion `yaml:"versions"`
}

type fileVersion struct {
	Name          string  `yaml:"name"`
	ContextWindow *Limit  `yaml:"context_window"`
	ResponseLimit *Limit  `yaml:"response_limit"`
	InputCost     *Amount `yaml:"input_cost"`
	OutputCost    *Amount `yaml:"output_cost"`
}

type fileRates struct {
	Provider           string     `yaml:"provider"`
	BaseRatePerMillion float64    `yaml:"base_rate_per_million"`
	Tiers              []fileTier `yaml:"tiers"`
}

type fileTier struct {
	Name               string  `yaml:"name"`
	Ceiling            *Limit  `yaml:"ceiling"`
	DiscountMultiplier float64 `yaml:"discount_multiplier"`
}

// Load reads, parses and validates a catalog file.
func Load(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}

	cat, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog file %q: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a catalog in the given format.
func Parse(data []byte, format Format) (*Catalog, error) {
	var fc fileCatalog

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		// TOML is normalized through YAML so both encodings share one set of
		// scalar rules for amounts and limits.
		var raw map[string]interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		normalized, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize TOML: %w", err)
		}
		if err := yaml.Unmarshal(normalized, &fc); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err := checkSchema(fc.SchemaVersion); err != nil {
		return nil, err
	}

	cat, err := fc.build()
	if err != nil {
		return nil, err
	}
	if err := Validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func checkSchema(version string) error {
	if version == "" {
		return fmt.Errorf("schema_version is required")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("schema_version %s is not supported (want %s)", version, SupportedSchema)
	}
	return nil
}

// build flattens the nested file layout. Missing prices are reported here,
// since a zero value would otherwise pass as a legitimate metered price.
func (fc *fileCatalog) build() (*Catalog, error) {
	var errs []FieldError
	var entries []ModelEntry

	for _, p := range fc.Providers {
		for _, m := range p.Models {
			for _, v := range m.Versions {
				e := ModelEntry{
					Provider:      p.Name,
					Model:         m.Name,
					Version:       v.Name,
					ContextWindow: Unbounded(),
					ResponseLimit: Unbounded(),
				}
				field := fmt.Sprintf("entries[%s]", e.Key())

				if v.ContextWindow != nil {
					e.ContextWindow = *v.ContextWindow
				}
				if v.ResponseLimit != nil {
					e.ResponseLimit = *v.ResponseLimit
				}
				if v.InputCost == nil {
					errs = append(errs, FieldError{Field: field + ".input_cost", Message: "is required"})
				} else {
					e.InputCost = *v.InputCost
				}
				if v.OutputCost == nil {
					errs = append(errs, FieldError{Field: field + ".output_cost", Message: "is required"})
				} else {
					e.OutputCost = *v.OutputCost
				}
				entries = append(entries, e)
			}
		}
	}

	rates := make([]ProviderRates, 0, len(fc.VolumeRates))
	for _, r := range fc.VolumeRates {
		pr := ProviderRates{Provider: r.Provider, BaseRatePerMillion: r.BaseRatePerMillion}
		for _, t := range r.Tiers {
			ceiling := Unbounded()
			if t.Ceiling != nil {
				ceiling = *t.Ceiling
			}
			pr.Tiers = append(pr.Tiers, VolumeTier{
				Name:               t.Name,
				Ceiling:            ceiling,
				DiscountMultiplier: t.DiscountMultiplier,
			})
		}
		rates = append(rates, pr)
	}

	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}
	return New(fc.SchemaVersion, entries, fc.UsageProfiles, rates), nil
}

// Marshal encodes a catalog in the nested file layout accepted by Parse.
func Marshal(c *Catalog, format Format) ([]byte, error) {
	fc := fileCatalog{
		SchemaVersion: c.schemaVersion,
		UsageProfiles: c.UsageProfiles(),
	}

	providerIdx := make(map[string]int)
	for _, e := range c.entries {
		pi, ok := providerIdx[e.Provider]
		if !ok {
			pi = len(fc.Providers)
			providerIdx[e.Provider] = pi
			fc.Providers = append(fc.Providers, fileProvider{Name: e.Provider})
		}
		p := &fc.Providers[pi]
		if len(p.Models) == 0 || p.Models[len(p.Models)-1].Name != e.Model {
			p.Models = append(p.Models, fileModel{Name: e.Model})
		}
		m := &p.Models[len(p.Models)-1]

		e := e
		m.Versions = append(m.Versions, fileVersion{
			Name:          e.Version,
			ContextWindow: &e.ContextWindow,
			ResponseLimit: &e.ResponseLimit,
			InputCost:     &e.InputCost,
			OutputCost:    &e.OutputCost,
		})
	}

	for _, r := range c.rates {
		fr := fileRates{Provider: r.Provider, BaseRatePerMillion: r.BaseRatePerMillion}
		for _, t := range r.Tiers {
			t := t
			fr.Tiers = append(fr.Tiers, fileTier{Name: t.Name, Ceiling: &t.Ceiling, DiscountMultiplier: t.DiscountMultiplier})
		}
		fc.VolumeRates = append(fc.VolumeRates, fr)
	}

	switch format {
	case FormatYAML:
		return yaml.Marshal(&fc)
	case FormatTOML:
		data, err := yaml.Marshal(&fc)
		if err != nil {
			return nil, err
		}
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported catalog output format %q", format)
	}
}
