// Package volume resolves provider volume tiers.
//
// A provider's tiers are walked in table order and the first tier whose
// ceiling is unbounded or not exceeded by the total token count is selected.
// Tiers are never re-sorted; ascending ceilings are a catalog invariant
// enforced by catalog.Validate.
//
// The quoted cost is total * base rate * discount multiplier / 1,000,000.
package volume
