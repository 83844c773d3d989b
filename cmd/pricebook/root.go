package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pricebook",
	Short: "Pricebook - LLM pricing and cost estimation",
	Long: `Pricebook estimates the token usage and cost of LLM requests from a
versioned pricing catalog.

It provides:
  - Per-model cost estimates with context window and response limit checks
  - Monthly projections from named usage profiles
  - A comparison grid across all providers, models and versions
  - Volume tier resolution for API pricing
  - A JSON HTTP API with Prometheus metrics and catalog hot-reload`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default config.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
