package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/config"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/telemetry/logging"
)

// loadConfig reads the configuration named by --config, applying
// environment overrides. --verbose forces debug logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// loadCatalog returns the file catalog named by the configuration, or the
// built-in catalog when no path is set.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, cli.NewConfigError("catalog.path", err.Error())
	}
	return cat, nil
}

// newLogger builds the command logger. Logs go to stderr so command output
// on stdout stays machine-readable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logging.SetDefault(logger)
	return logger, nil
}

// newProcessor wires the engine for the one-shot commands.
func newProcessor() (*processing.Processor, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	return processing.NewProcessor(cat, cfg, processing.WithLogger(logger)), cfg, nil
}

// textInput is a text supplied either inline or from a file.
type textInput struct {
	text string
	file string
}

func (in *textInput) register(cmd *cobra.Command, name, usage string) {
	cmd.Flags().StringVar(&in.text, name, "", usage)
	cmd.Flags().StringVar(&in.file, name+"-file", "", usage+" read from a .txt, .md, .json, .csv or .pdf file")
	cmd.MarkFlagsMutuallyExclusive(name, name+"-file")
}

// resolve returns the inline text, or the text extracted from the file.
func (in *textInput) resolve(ctx context.Context, p *processing.Processor) (string, error) {
	if in.file == "" {
		return in.text, nil
	}
	f, err := os.Open(in.file)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", in.file, err)
	}
	defer f.Close()

	res, err := p.Ingest(ctx, in.file, f)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// write renders raw in the selected format. Text and CSV use table.
func write(cmd *cobra.Command, output string, raw interface{}, table cli.Tabular) error {
	format, err := cli.ParseFormat(output)
	if err != nil {
		return err
	}
	data := raw
	if format == cli.FormatText || format == cli.FormatCSV {
		data = table
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), data)
}

// formatMoney renders a metered amount with the given precision, or the
// self-hosted marker.
func formatMoney(a catalog.Amount, currency string, decimals int) string {
	v, ok := a.Value()
	if !ok {
		return a.String()
	}
	if strings.EqualFold(currency, "USD") || currency == "" {
		return fmt.Sprintf("$%.*f", decimals, v)
	}
	return fmt.Sprintf("%.*f %s", decimals, v, currency)
}

func formatLimit(l catalog.Limit) string {
	n, ok := l.Value()
	if !ok {
		return "unbounded"
	}
	return fmt.Sprintf("%d", n)
}
