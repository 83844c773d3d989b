package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/processing/costs"
)

var estimateFlags struct {
	key      string
	prompt   textInput
	response textInput
	usage    string
	output   string
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate tokens and cost for one model",
	Long: `Estimate the token counts, limit checks and costs of a prompt and an
expected response for a single catalog entry.

The request cost uses the estimated token counts. The monthly projection uses
the averages of the selected usage profile only.

Examples:
  # Inline text
  pricebook estimate --key Anthropic/Claude/3-Opus --prompt "Hello" --response "Hi there"

  # Prompt from a file, high usage profile, JSON output
  pricebook estimate --key OpenAI/GPT-4/4o --prompt-file prompt.md --usage high -o json`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&estimateFlags.key, "key", "k", "", "model selection as provider/model/version")
	estimateFlags.prompt.register(estimateCmd, "prompt", "prompt text")
	estimateFlags.response.register(estimateCmd, "response", "expected response text")
	estimateCmd.Flags().StringVarP(&estimateFlags.usage, "usage", "u", "", "usage profile for the monthly projection (default from config)")
	estimateCmd.Flags().StringVarP(&estimateFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
	_ = estimateCmd.MarkFlagRequired("key")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	key, err := catalog.ParseKey(estimateFlags.key)
	if err != nil {
		return cli.NewConfigError("key", err.Error())
	}

	p, _, err := newProcessor()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	prompt, err := estimateFlags.prompt.resolve(ctx, p)
	if err != nil {
		return cli.NewCommandError("estimate", err)
	}
	response, err := estimateFlags.response.resolve(ctx, p)
	if err != nil {
		return cli.NewCommandError("estimate", err)
	}

	est, err := p.Estimate(ctx, processing.EstimateRequest{
		Key:      key,
		Prompt:   prompt,
		Response: response,
		Usage:    estimateFlags.usage,
	})
	if err != nil {
		return cli.NewCommandError("estimate", err)
	}

	return write(cmd, estimateFlags.output, est, estimateView(est))
}

// estimateView renders a single estimate as field/value rows.
type estimateView costs.CostEstimate

func (v estimateView) Table() cli.Table {
	return cli.Table{
		Headers: []string{"FIELD", "VALUE"},
		Rows: [][]string{
			{"Model", v.Key.String()},
			{"Prompt tokens", fmt.Sprintf("%d", v.PromptTokens)},
			{"Response tokens", fmt.Sprintf("%d", v.ResponseTokens)},
			{"Total tokens", fmt.Sprintf("%d", v.TotalTokens)},
			{"Context window", limitMark(v.WithinContextWindow)},
			{"Response limit", limitMark(v.WithinResponseLimit)},
			{"Request cost", formatMoney(v.CurrentRequestCost, v.Currency, 4)},
			{fmt.Sprintf("Monthly cost (%s)", v.UsageProfile), formatMoney(v.ProjectedMonthlyCost, v.Currency, 2)},
		},
	}
}

func limitMark(within bool) string {
	if within {
		return cli.Mark(true, "within limit")
	}
	return cli.Mark(false, "exceeds limit")
}
