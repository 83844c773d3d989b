package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/cli"
)

var catalogFlags struct {
	file   string
	output string
	format string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate pricing catalogs",
	Long: `Inspect and validate pricing catalogs.

Without --file the catalog configured by catalog.path is used, or the
built-in catalog when no path is configured.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every priced model",
	Long: `List every provider, model and version with limits and per-1K token prices.

Examples:
  pricebook catalog list
  pricebook catalog list --file pricing.toml -o json`,
	RunE: runCatalogList,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a catalog file",
	Long: `Parse and validate a catalog file.

Validation checks the schema version, cost pairs, limits, usage profiles and
tier tables (ascending ceilings, exactly one unbounded final tier).

Examples:
  pricebook catalog validate --file pricing.yaml`,
	RunE: runCatalogValidate,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog in the file layout",
	Long: `Write the catalog in the nested file layout accepted by catalog.path.
Exporting the built-in catalog is a convenient starting point for a custom one.

Examples:
  pricebook catalog export > pricing.yaml
  pricebook catalog export --format toml > pricing.toml`,
	RunE: runCatalogExport,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogValidateCmd, catalogExportCmd)

	catalogCmd.PersistentFlags().StringVarP(&catalogFlags.file, "file", "f", "", "catalog file (.yaml, .yml or .toml)")
	catalogListCmd.Flags().StringVarP(&catalogFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
	catalogExportCmd.Flags().StringVar(&catalogFlags.format, "format", "yaml", "file format: yaml, toml")
}

// selectedCatalog loads --file, falling back to the configured catalog.
func selectedCatalog() (*catalog.Catalog, string, error) {
	if catalogFlags.file != "" {
		cat, err := catalog.Load(catalogFlags.file)
		return cat, catalogFlags.file, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	if cfg.Catalog.Path == "" {
		return catalog.Default(), "built-in catalog", nil
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	return cat, cfg.Catalog.Path, err
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, _, err := selectedCatalog()
	if err != nil {
		return cli.NewCommandError("catalog list", err)
	}
	entries := cat.Entries()
	return write(cmd, catalogFlags.output, entries, entriesView(entries))
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, source, err := selectedCatalog()
	if err != nil {
		return cli.NewCommandError("catalog validate", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Catalog valid: %s (schema %s, %d entries, %d usage profiles, %d rate tables)\n",
		cli.MarkOK, source, cat.SchemaVersion(), len(cat.Entries()), len(cat.UsageProfiles()), len(cat.AllRates()))
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format := catalog.Format(catalogFlags.format)
	if format != catalog.FormatYAML && format != catalog.FormatTOML {
		return cli.NewConfigError("format", fmt.Sprintf("unsupported catalog format %q (want yaml or toml)", catalogFlags.format))
	}

	cat, _, err := selectedCatalog()
	if err != nil {
		return cli.NewCommandError("catalog export", err)
	}
	data, err := catalog.Marshal(cat, format)
	if err != nil {
		return cli.NewCommandError("catalog export", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

type entriesView []catalog.ModelEntry

func (v entriesView) Table() cli.Table {
	t := cli.Table{
		Headers: []string{"PROVIDER", "MODEL", "VERSION", "CONTEXT", "RESPONSE", "INPUT/1K", "OUTPUT/1K"},
	}
	for _, e := range v {
		t.Rows = append(t.Rows, []string{
			e.Provider,
			e.Model,
			e.Version,
			formatLimit(e.ContextWindow),
			formatLimit(e.ResponseLimit),
			formatMoney(e.InputCost, "USD", 4),
			formatMoney(e.OutputCost, "USD", 4),
		})
	}
	return t
}
