package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/cli"
	"mercator-hq/pricebook/pkg/processing/costs"
)

// executeCommand runs the root command with args and returns stdout.
// Flags are reset first because cobra keeps values between executions.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", writeQuietConfig(t)}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writeQuietConfig writes a config that keeps command logs at error level.
func writeQuietConfig(t *testing.T) string {
	t.Helper()
	return writeFile(t, "config.yaml", "telemetry:\n  logging:\n    level: error\n")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEstimateCommand(t *testing.T) {
	out, err := executeCommand(t, "estimate",
		"--key", "Anthropic/Claude/3-Opus",
		"--prompt", strings.Repeat("a", 400),
		"--response", strings.Repeat("b", 200),
		"-o", "json",
	)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	var est costs.CostEstimate
	if err := json.Unmarshal([]byte(out), &est); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if est.PromptTokens != 100 || est.ResponseTokens != 50 || est.UsageProfile != "medium" {
		t.Errorf("unexpected estimate: %+v", est)
	}
	if monthly, _ := est.ProjectedMonthlyCost.Value(); monthly < 824.99 || monthly > 825.01 {
		t.Errorf("ProjectedMonthlyCost = %v, want 825", monthly)
	}
}

func TestEstimateCommand_Text(t *testing.T) {
	out, err := executeCommand(t, "estimate", "--key", "Meta/Llama/Llama-3.2-70b", "--prompt", "hello")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	for _, want := range []string{"Total tokens", "Request cost", "self-hosted", cli.MarkOK} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEstimateCommand_PromptFile(t *testing.T) {
	prompt := writeFile(t, "prompt.md", "# Title\n\nSome body text.")

	out, err := executeCommand(t, "estimate", "--key", "OpenAI/GPT-4/4o", "--prompt-file", prompt, "-o", "json")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var est costs.CostEstimate
	if err := json.Unmarshal([]byte(out), &est); err != nil {
		t.Fatal(err)
	}
	if est.PromptTokens != 6 {
		t.Errorf("PromptTokens = %d, want 6", est.PromptTokens)
	}
}

func TestEstimateCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantIs   error
		wantExit int
	}{
		{
			name:     "unknown model",
			args:     []string{"estimate", "--key", "Acme/Rocket/1"},
			wantIs:   catalog.ErrUnknownModelSelection,
			wantExit: cli.ExitFailure,
		},
		{
			name:     "malformed key",
			args:     []string{"estimate", "--key", "OpenAI/GPT-4"},
			wantExit: cli.ExitConfigError,
		},
		{
			name:     "unknown usage",
			args:     []string{"estimate", "--key", "OpenAI/GPT-4/4o", "--usage", "extreme"},
			wantIs:   catalog.ErrUnknownUsageProfile,
			wantExit: cli.ExitFailure,
		},
		{
			name:     "unsupported output",
			args:     []string{"estimate", "--key", "OpenAI/GPT-4/4o", "-o", "xml"},
			wantExit: cli.ExitConfigError,
		},
		{
			name:     "unsupported prompt file",
			args:     []string{"estimate", "--key", "OpenAI/GPT-4/4o", "--prompt-file", "deck.pptx"},
			wantExit: cli.ExitFailure,
		},
		{
			name:     "prompt and prompt file",
			args:     []string{"estimate", "--key", "OpenAI/GPT-4/4o", "--prompt", "x", "--prompt-file", "y.txt"},
			wantExit: cli.ExitFailure,
		},
		{
			name:     "missing key",
			args:     []string{"estimate", "--prompt", "x"},
			wantExit: cli.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v does not match %v", err, tt.wantIs)
			}
			if got := cli.ExitCode(err); got != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d (%v)", got, tt.wantExit, err)
			}
		})
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := executeCommand(t, "compare", "--prompt", "hello world", "--response", "hi", "-o", "csv")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+len(catalog.Default().Entries()) {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "PROVIDER,MODEL,VERSION") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "OpenAI,GPT-4,") {
		t.Errorf("rows should follow catalog order, first = %q", lines[1])
	}
	if !strings.Contains(out, "self-hosted") {
		t.Error("self-hosted entries missing from grid")
	}
}

func TestCompareCommand_ExceedsContext(t *testing.T) {
	out, err := executeCommand(t, "compare", "--prompt", strings.Repeat("x", 4*9000), "-o", "csv")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, cli.MarkWarn+" exceeds context window") {
		t.Errorf("expected a context window warning:\n%s", out)
	}
}

func TestCompareCommand_UnknownUsage(t *testing.T) {
	_, err := executeCommand(t, "compare", "--usage", "extreme")
	if !errors.Is(err, catalog.ErrUnknownUsageProfile) {
		t.Errorf("expected ErrUnknownUsageProfile, got %v", err)
	}
}

func TestTiersCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantTier string
		wantCost float64
	}{
		{"explicit tokens", []string{"--provider", "OpenAI", "--tokens", "60000000"}, "Tier 3", 60 * 20 * 0.6},
		{"ceiling is inclusive", []string{"--provider", "Anthropic", "--tokens", "1000000"}, "Starter", 15},
		{"from text", []string{"--provider", "google", "--prompt", "hello", "--response", "world"}, "Basic", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, append([]string{"tiers", "-o", "json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("tiers: %v", err)
			}
			var view tiersView
			if err := json.Unmarshal([]byte(out), &view); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, out)
			}
			if view.Quote.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", view.Quote.Tier, tt.wantTier)
			}
			if tt.wantCost > 0 && (view.Quote.Cost < tt.wantCost-1e-6 || view.Quote.Cost > tt.wantCost+1e-6) {
				t.Errorf("Cost = %v, want %v", view.Quote.Cost, tt.wantCost)
			}
			if len(view.Tiers) != 3 {
				t.Errorf("expected the full tier table, got %d tiers", len(view.Tiers))
			}
		})
	}
}

func TestTiersCommand_Text(t *testing.T) {
	out, err := executeCommand(t, "tiers", "--provider", "Anthropic", "--tokens", "12000000")
	if err != nil {
		t.Fatalf("tiers: %v", err)
	}
	var selected string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, cli.MarkOK) {
			selected = line
		}
	}
	if !strings.HasPrefix(selected, "Enterprise") || !strings.Contains(selected, "$126.0000") {
		t.Errorf("unexpected selected row %q in:\n%s", selected, out)
	}
}

func TestTiersCommand_Errors(t *testing.T) {
	if _, err := executeCommand(t, "tiers", "--provider", "Mistral", "--tokens", "5"); !errors.Is(err, catalog.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
	if _, err := executeCommand(t, "tiers", "--provider", "OpenAI", "--tokens=-1"); !errors.Is(err, costs.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
	if _, err := executeCommand(t, "tiers", "--provider", "OpenAI", "--tokens", "5", "--prompt", "x"); err == nil {
		t.Error("expected error for --tokens with --prompt")
	}
}

func TestCatalogCommands(t *testing.T) {
	out, err := executeCommand(t, "catalog", "list", "-o", "csv")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if n := len(strings.Split(strings.TrimRight(out, "\n"), "\n")); n != 19 {
		t.Errorf("catalog list: got %d lines", n)
	}

	out, err = executeCommand(t, "catalog", "validate")
	if err != nil {
		t.Fatalf("catalog validate: %v", err)
	}
	if !strings.Contains(out, "Catalog valid: built-in catalog") {
		t.Errorf("unexpected validate output %q", out)
	}

	exported, err := executeCommand(t, "catalog", "export", "--format", "toml")
	if err != nil {
		t.Fatalf("catalog export: %v", err)
	}
	path := writeFile(t, "pricing.toml", exported)
	out, err = executeCommand(t, "catalog", "validate", "--file", path)
	if err != nil {
		t.Fatalf("validate exported catalog: %v", err)
	}
	if !strings.Contains(out, "18 entries") {
		t.Errorf("unexpected validate output %q", out)
	}

	if _, err := executeCommand(t, "catalog", "export", "--format", "xml"); cli.ExitCode(err) != cli.ExitConfigError {
		t.Errorf("expected config error for unknown export format, got %v", err)
	}
}

func TestCatalogValidate_Invalid(t *testing.T) {
	path := writeFile(t, "pricing.yaml", `
schema_version: "1.0.0"
usage_profiles:
  - {name: medium, monthly_prompts: 1, avg_prompt_tokens: 1, avg_response_tokens: 1}
volume_rates:
  - provider: Acme
    base_rate_per_million: 1
    tiers:
      - {name: Big, ceiling: 100, discount_multiplier: 1}
      - {name: Small, ceiling: 10, discount_multiplier: 1}
      - {name: Rest, ceiling: unbounded, discount_multiplier: 1}
`)
	_, err := executeCommand(t, "catalog", "validate", "--file", path)
	if err == nil || !strings.Contains(err.Error(), "previous ceiling") {
		t.Errorf("expected ascending-ceiling error, got %v", err)
	}
}

func TestConfiguredCatalog(t *testing.T) {
	catPath := writeFile(t, "pricing.yaml", `
schema_version: "1.1.0"
providers:
  - name: Acme
    models:
      - name: Rocket
        versions:
          - {name: "1", context_window: 1000, response_limit: 100, input_cost: 1, output_cost: 2}
usage_profiles:
  - {name: medium, monthly_prompts: 10, avg_prompt_tokens: 1000, avg_response_tokens: 1000}
volume_rates:
  - provider: Acme
    base_rate_per_million: 10
    tiers:
      - {name: All, ceiling: unbounded, discount_multiplier: 1}
`)
	cfgPath := writeFile(t, "config.yaml", "catalog:\n  path: "+catPath+"\ntelemetry:\n  logging:\n    level: error\n")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"-c", cfgPath, "estimate", "--key", "Acme/Rocket/1", "--prompt", "abcd", "-o", "json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("estimate against configured catalog: %v", err)
	}

	var est costs.CostEstimate
	if err := json.Unmarshal(out.Bytes(), &est); err != nil {
		t.Fatal(err)
	}
	if monthly, _ := est.ProjectedMonthlyCost.Value(); monthly != 30 {
		t.Errorf("ProjectedMonthlyCost = %v, want 30", monthly)
	}
}

func TestServeDryRun(t *testing.T) {
	out, err := executeCommand(t, "serve", "--dry-run", "--listen", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("serve --dry-run: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, "Catalog valid (18 entries)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := executeCommand(t, "serve", "--dry-run", "--log-level", "loud"); cli.ExitCode(err) != cli.ExitConfigError {
		t.Errorf("expected config error for bad log level, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "Pricebook "+Version) || !strings.Contains(out, "Go Version:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := executeCommand(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "pricebook") {
				t.Errorf("completion script does not mention pricebook")
			}
		})
	}

	if _, err := executeCommand(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
