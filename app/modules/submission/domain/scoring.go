package submissiondomain

import "math"

// ScoreFormulaVersion identifies the scoring formula below. It is stamped on every
// stored session. Bump it whenever the game client changes its formula and this
// file is updated to match.
const ScoreFormulaVersion = "v1"

// DefaultScoreTolerance absorbs rounding and timing skew between client and server.
const DefaultScoreTolerance int64 = 100

const (
	moneyWeight      = 0.1
	paperWeight      = 5000
	safetyWeight     = 1000
	researcherWeight = 2000
)

// CalculateScore recomputes the score from the final state alone.
// It mirrors the game client's formula term by term and in the same order so the
// floating point result truncates identically:
//
//	money*0.1 + papers*5000 + (100-doom)*1000 + researchers*2000
//
// Non-numeric fields count as 0.
func CalculateScore(state FinalState) int64 {
	money := numberOrZero(state, "money")
	papers := numberOrZero(state, "papers")
	doom := numberOrZero(state, "doom")
	researchers := numberOrZero(state, "researchers")

	score := 0.0
	score += money * moneyWeight
	score += papers * paperWeight
	score += (100 - doom) * safetyWeight
	score += researchers * researcherWeight

	return truncateToInt64(score)
}

// truncateToInt64 truncates toward zero, saturating outside the int64 range.
func truncateToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// ValidateScore recomputes the score and accepts the submitted value when it is
// within tolerance of the recomputed one.
func ValidateScore(submitted int64, state FinalState, tolerance int64) (bool, string) {
	calculated := CalculateScore(state)
	if tolerance < 0 {
		tolerance = 0
	}
	diff := absDiff(submitted, calculated)
	if diff > uint64(tolerance) {
		return false, scoreMismatchReason(submitted, calculated, diff)
	}
	return true, ""
}

// absDiff returns |a-b| without overflow. The true gap between two int64 values
// always fits in a uint64.
func absDiff(a, b int64) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

func numberOrZero(state FinalState, field string) float64 {
	v, ok := state.Number(field)
	if !ok {
		return 0
	}
	return v
}
