// Pricebook estimates token counts and costs of LLM requests against a
// versioned pricing catalog.
//
// It provides:
//   - Per-model cost estimates for a prompt and an expected response
//   - A comparison grid across every catalog entry
//   - Volume tier resolution for API providers
//   - A JSON HTTP API with catalog hot-reload
//
// Usage:
//
//	# Estimate one model
//	pricebook estimate --key OpenAI/GPT-4/4o --prompt "Summarize this" --response "..."
//
//	# Compare every model for a prompt file
//	pricebook compare --prompt-file prompt.md --usage high
//
//	# Resolve the volume tier for a monthly token total
//	pricebook tiers --provider Anthropic --tokens 12000000
//
//	# Validate a catalog file
//	pricebook catalog validate --file pricing.yaml
//
//	# Start the HTTP API
//	pricebook serve --config /etc/pricebook/config.yaml
package main

func main() {
	Execute()
}
