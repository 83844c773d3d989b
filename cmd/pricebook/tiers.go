package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/processing/volume"
)

var tiersFlags struct {
	provider string
	tokens   int
	prompt   textInput
	response textInput
	output   string
}

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Resolve the volume pricing tier for a provider",
	Long: `Resolve the volume tier and cost of a token total for an API provider.

The total is either given with --tokens or estimated from a prompt and an
expected response. The first tier, in table order, whose ceiling admits the
total is selected.

Examples:
  pricebook tiers --provider OpenAI --tokens 60000000
  pricebook tiers --provider Google --prompt-file prompt.txt --response "..."`,
	RunE: runTiers,
}

func init() {
	rootCmd.AddCommand(tiersCmd)

	tiersCmd.Flags().StringVarP(&tiersFlags.provider, "provider", "p", "", "API provider name")
	tiersCmd.Flags().IntVarP(&tiersFlags.tokens, "tokens", "t", 0, "total token volume")
	tiersFlags.prompt.register(tiersCmd, "prompt", "prompt text")
	tiersFlags.response.register(tiersCmd, "response", "expected response text")
	tiersCmd.Flags().StringVarP(&tiersFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
	_ = tiersCmd.MarkFlagRequired("provider")
	tiersCmd.MarkFlagsMutuallyExclusive("tokens", "prompt")
	tiersCmd.MarkFlagsMutuallyExclusive("tokens", "prompt-file")
}

func runTiers(cmd *cobra.Command, args []string) error {
	p, _, err := newProcessor()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	req := processing.TierRequest{Provider: tiersFlags.provider}
	if cmd.Flags().Changed("tokens") {
		total := tiersFlags.tokens
		req.TotalTokens = &total
	} else {
		if req.Prompt, err = tiersFlags.prompt.resolve(ctx, p); err != nil {
			return cli.NewCommandError("tiers", err)
		}
		if req.Response, err = tiersFlags.response.resolve(ctx, p); err != nil {
			return cli.NewCommandError("tiers", err)
		}
	}

	quote, err := p.ResolveTier(ctx, req)
	if err != nil {
		return cli.NewCommandError("tiers", err)
	}
	rates, err := p.Catalog().Rates(quote.Provider)
	if err != nil {
		return cli.NewCommandError("tiers", err)
	}

	view := tiersView{Quote: quote, Tiers: rates.Tiers}
	return write(cmd, tiersFlags.output, view, view)
}

// tiersView pairs the resolved quote with the provider's full tier table.
type tiersView struct {
	Quote volume.Quote         `json:"quote" yaml:"quote"`
	Tiers []catalog.VolumeTier `json:"tiers" yaml:"tiers"`
}

func (v tiersView) Table() cli.Table {
	t := cli.Table{Headers: []string{"TIER", "CEILING", "RATE", "COST", "SELECTED"}}
	for _, tier := range v.Tiers {
		ceiling := "unbounded"
		if n, ok := tier.Ceiling.Value(); ok {
			ceiling = fmt.Sprintf("up to %.1fM tokens", float64(n)/1_000_000)
		}
		cost, selected := "-", ""
		if tier.Name == v.Quote.Tier {
			cost = fmt.Sprintf("$%.4f", v.Quote.Cost)
			selected = cli.Mark(true, fmt.Sprintf("%d tokens", v.Quote.TotalTokens))
		}
		t.Rows = append(t.Rows, []string{
			tier.Name,
			ceiling,
			fmt.Sprintf("%g%% of $%g/M", tier.DiscountMultiplier*100, v.Quote.BaseRatePerMillion),
			cost,
			selected,
		})
	}
	return t
}
