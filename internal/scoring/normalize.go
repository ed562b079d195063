package scoring

import (
	"gonum.org/v1/gonum/floats"
)

// DegenerateValue is assigned to every option for a criterion whose values
// are all equal.
const DegenerateValue = 0.5

// MinMax rescales values to [0,1]. When negate is set each value is negated
// first, so the smallest raw value maps to 1. If max == min every output is
// DegenerateValue and degenerate is true.
func MinMax(values []float64, negate bool) (out []float64, degenerate bool) {
	if len(values) == 0 {
		return nil, false
	}
	col := make([]float64, len(values))
	copy(col, values)
	if negate {
		floats.Scale(-1, col)
	}

	lo, hi := floats.Min(col), floats.Max(col)
	out = make([]float64, len(col))
	if hi == lo {
		for i := range out {
			out[i] = DegenerateValue
		}
		return out, true
	}
	span := hi - lo
	for i, v := range col {
		out[i] = (v - lo) / span
	}
	return out, false
}
