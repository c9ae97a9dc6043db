// Package pricing resolves margin policies into client-facing final prices.
// It is pure: the applicable policies are passed in, nothing is read or
// written here. The engine invokes it exactly once, at offer acceptance, and
// freezes the result into the offer.
package pricing

import (
	"sort"

	"github.com/servly/escrow-engine/pkg/models"
)

// Quote is the outcome of a margin computation. All amounts are integer
// minor units.
type Quote struct {
	FinalPrice    int64
	MarginApplied int64
	PolicyID      string
}

// ComputeFinalPrice applies the most specific active policy whose range
// contains the proposed price. When ranges overlap, the narrowest span wins;
// equal spans tie-break on policy id so the result is deterministic. With no
// matching policy the proposed price passes through unchanged.
func ComputeFinalPrice(policies []models.MarginPolicy, proposedPrice int64) Quote {
	var matches []models.MarginPolicy
	for _, p := range policies {
		if p.Active && p.Contains(proposedPrice) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return Quote{FinalPrice: proposedPrice}
	}

	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].Span(), matches[j].Span()
		if si != sj {
			return si < sj
		}
		return matches[i].ID < matches[j].ID
	})
	policy := matches[0]

	var margin int64
	switch policy.MarginType {
	case models.MarginFixed:
		margin = policy.MarginValue
	case models.MarginPercentage:
		margin = roundHalfUpPercent(proposedPrice, policy.MarginValue)
	}

	return Quote{
		FinalPrice:    proposedPrice + margin,
		MarginApplied: margin,
		PolicyID:      policy.ID,
	}
}

// PercentShare computes a percentage share of an amount, rounded half-up to
// minor units. Used for platform fees and partial dispute refunds.
func PercentShare(amount int64, percentage int64) int64 {
	return roundHalfUpPercent(amount, percentage)
}

// roundHalfUpPercent computes amount*percent/100 with half-up rounding on
// the minor unit. Inputs are non-negative in every caller.
func roundHalfUpPercent(amount, percent int64) int64 {
	return (amount*percent + 50) / 100
}
