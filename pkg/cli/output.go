package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is an aligned table, or plain text for non-tabular results (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML output.
	FormatYAML OutputFormat = "yaml"
	// FormatCSV is CSV output for tabular results.
	FormatCSV OutputFormat = "csv"
)

// Status marks used in tabular output.
const (
	MarkOK   = "✓"
	MarkWarn = "⚠"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unsupported format %q (want text, json, yaml or csv)", s))
	}
}

// Table is a rectangular rendering of a result.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tabular is implemented by results that can be shown as a table.
type Tabular interface {
	Table() Table
}

// Mark returns MarkOK or MarkWarn followed by an optional note.
func Mark(ok bool, note string) string {
	m := MarkOK
	if !ok {
		m = MarkWarn
	}
	if note == "" {
		return m
	}
	return m + " " + note
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter renders Tabular data as an aligned grid and anything else
// with fmt's %v verb. Status marks are colored when Color is set.
type TextFormatter struct {
	Color bool
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	tab, ok := data.(Tabular)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	t := tab.Table()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = f.colorize(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// colorize wraps leading status marks in color. Both colors use escape
// sequences of the same length so tabwriter alignment is preserved.
func (f *TextFormatter) colorize(cell string) string {
	if !f.Color {
		return cell
	}
	switch {
	case strings.HasPrefix(cell, MarkOK):
		return color.GreenString(MarkOK) + strings.TrimPrefix(cell, MarkOK)
	case strings.HasPrefix(cell, MarkWarn):
		return color.YellowString(MarkWarn) + strings.TrimPrefix(cell, MarkWarn)
	}
	return cell
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// FormatTo writes data to writer in YAML format.
func (f *YAMLFormatter) FormatTo(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// CSVFormatter formats Tabular output as CSV.
type CSVFormatter struct{}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data interface{}) error {
	tab, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("csv output is not available for %T", data)
	}
	t := tab.Table()

	csvWriter := csv.NewWriter(w)
	if len(t.Headers) > 0 {
		if err := csvWriter.Write(t.Headers); err != nil {
			return err
		}
	}
	if err := csvWriter.WriteAll(t.Rows); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format. Text output
// is colored unless color output is disabled globally (no TTY or NO_COLOR).
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{Color: !color.NoColor}
	}
}
