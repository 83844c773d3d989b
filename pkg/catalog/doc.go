// Package catalog holds the pricing and limits reference data used by the
// estimation engine.
//
// A Catalog is the single source of pricing literals for every resolver in
// pricebook. It describes three kinds of data:
//
//   - Model entries: one per (provider, model family, version) with a context
//     window, a response limit and per-1K-token input/output prices
//   - Usage profiles: named monthly usage assumptions (low, medium, high) used
//     for projected monthly spend
//   - Volume rates: a per-provider base rate per million tokens and an ordered
//     list of discount tiers
//
// # Metered and Self-Hosted Prices
//
// Prices are represented by Amount, a tagged value that is either Metered or
// SelfHosted. A self-hosted model has no per-token price at all, which is
// different from a metered price of zero:
//
//	in := catalog.Metered(0.015)
//	if v, ok := in.Value(); ok {
//		fmt.Printf("$%.4f per 1K tokens\n", v)
//	}
//
// Token ceilings use Limit in the same way (Bounded or Unbounded).
//
// # Loading
//
// Default returns the compiled-in catalog. Load reads a YAML or TOML file with
// the same content so pricing can be version-controlled outside the binary:
//
//	cat, err := catalog.Load("pricing.yaml")
//	if err != nil {
//		return fmt.Errorf("failed to load catalog: %w", err)
//	}
//
// Loaded catalogs are validated. Validate enforces the invariants the
// resolvers depend on, in particular that volume tiers are listed in strictly
// ascending ceiling order and terminated by exactly one unbounded tier.
package catalog
