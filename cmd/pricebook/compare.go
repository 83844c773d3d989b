package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/processing/costs"
)

var compareFlags struct {
	prompt   textInput
	response textInput
	usage    string
	output   string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare estimates across every catalog entry",
	Long: `Estimate a prompt and an expected response against every provider,
model and version in the catalog, in catalog order.

The STATUS column flags entries whose context window or response limit is
exceeded. Self-hosted entries show "self-hosted" instead of a price.

Examples:
  pricebook compare --prompt "Translate this paragraph" --response "..."
  pricebook compare --prompt-file prompt.pdf --usage low -o csv > grid.csv`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareFlags.prompt.register(compareCmd, "prompt", "prompt text")
	compareFlags.response.register(compareCmd, "response", "expected response text")
	compareCmd.Flags().StringVarP(&compareFlags.usage, "usage", "u", "", "usage profile for the monthly projection (default from config)")
	compareCmd.Flags().StringVarP(&compareFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
}

func runCompare(cmd *cobra.Command, args []string) error {
	p, _, err := newProcessor()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	prompt, err := compareFlags.prompt.resolve(ctx, p)
	if err != nil {
		return cli.NewCommandError("compare", err)
	}
	response, err := compareFlags.response.resolve(ctx, p)
	if err != nil {
		return cli.NewCommandError("compare", err)
	}

	rows, err := p.Compare(ctx, processing.CompareRequest{
		Prompt:   prompt,
		Response: response,
		Usage:    compareFlags.usage,
	})
	if err != nil {
		return cli.NewCommandError("compare", err)
	}

	return write(cmd, compareFlags.output, rows, compareView(rows))
}

type compareView []costs.Row

func (v compareView) Table() cli.Table {
	t := cli.Table{
		Headers: []string{"PROVIDER", "MODEL", "VERSION", "PROMPT", "RESPONSE", "TOTAL", "REQUEST COST", "MONTHLY COST", "STATUS"},
	}
	for _, r := range v {
		e := r.Estimate
		if r.Error != "" {
			t.Rows = append(t.Rows, []string{
				e.Key.Provider, e.Key.Model, e.Key.Version, "-", "-", "-", "-", "-", cli.Mark(false, r.Error),
			})
			continue
		}
		t.Rows = append(t.Rows, []string{
			e.Key.Provider,
			e.Key.Model,
			e.Key.Version,
			fmt.Sprintf("%d", e.PromptTokens),
			fmt.Sprintf("%d", e.ResponseTokens),
			fmt.Sprintf("%d", e.TotalTokens),
			formatMoney(e.CurrentRequestCost, e.Currency, 4),
			formatMoney(e.ProjectedMonthlyCost, e.Currency, 2),
			rowStatus(e),
		})
	}
	return t
}

func rowStatus(e costs.CostEstimate) string {
	switch {
	case !e.WithinContextWindow:
		return cli.Mark(false, "exceeds context window")
	case !e.WithinResponseLimit:
		return cli.Mark(false, "exceeds response limit")
	default:
		return cli.Mark(true, "")
	}
}
