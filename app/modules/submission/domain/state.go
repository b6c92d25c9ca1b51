package submissiondomain

import (
	"encoding/json"
	"math"
)

// FinalState is the client's snapshot of the game at completion.
// Values are usually numbers; unknown keys are carried through untouched.
type FinalState map[string]any

// Number returns the numeric value stored under field.
// A missing field reads as 0. ok is false when the value is present but not a number.
func (s FinalState) Number(field string) (value float64, ok bool) {
	raw, present := s[field]
	if !present || raw == nil {
		return 0, true
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	default:
		return math.NaN(), false
	}
}

// Turn returns the final turn count, or 0 when it is missing or not numeric.
func (s FinalState) Turn() int {
	v, ok := s.Number("turn")
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}
