package submissiondomain

import (
	"fmt"
	"strconv"
)

// Bound is a closed interval a final-state field must fall inside.
type Bound struct {
	Field string
	Min   float64
	Max   float64
}

// The bounds are permissive on purpose; they catch corruption and absurd values,
// not balance problems. Money may go negative (loans). Order is the check order.
var plausibilityBounds = []Bound{
	{Field: "doom", Min: 0, Max: 100},
	{Field: "money", Min: -10_000_000, Max: 1_000_000_000},
	{Field: "papers", Min: 0, Max: 1000},
	{Field: "research", Min: 0, Max: 100_000},
	{Field: "compute", Min: 0, Max: 1_000_000},
	{Field: "turn", Min: 1, Max: 500},
	{Field: "researchers", Min: 0, Max: 1000},
}

// PlausibilityBounds returns a copy of the checked bounds in check order.
func PlausibilityBounds() []Bound {
	out := make([]Bound, len(plausibilityBounds))
	copy(out, plausibilityBounds)
	return out
}

// CheckPlausibility reports whether every checked field of state lies inside its bound.
// Missing fields count as 0 and fields outside the checked set are ignored.
// The first violation wins and its reason names the field.
func CheckPlausibility(state FinalState) (bool, string) {
	for _, b := range plausibilityBounds {
		v, ok := state.Number(b.Field)
		if !ok {
			return false, fmt.Sprintf("Implausible %s: not a number", b.Field)
		}
		// NaN fails both comparisons and is rejected here.
		if !(b.Min <= v && v <= b.Max) {
			return false, fmt.Sprintf("Implausible %s: %s (expected %s to %s)",
				b.Field, formatNumber(v), formatNumber(b.Min), formatNumber(b.Max))
		}
	}
	return true, ""
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
