package scoring

// FactorResult captures one criterion's contribution to an option's score.
type FactorResult struct {
	Name       Criterion `json:"name"`
	Normalized float64   `json:"normalized"`
	Weight     float64   `json:"weight"`
	Weighted   float64   `json:"weighted"`
	Degenerate bool      `json:"degenerate,omitempty"`
}

// Contributions breaks down so's score under weights, in criterion order.
// The Weighted values sum to so.Score when weights are the ones that
// produced so.
func Contributions(so ScoredOption, weights WeightVector, degenerate []Criterion) []FactorResult {
	flat := make(map[Criterion]bool, len(degenerate))
	for _, c := range degenerate {
		flat[c] = true
	}

	factors := make([]FactorResult, 0, len(Criteria()))
	for _, c := range Criteria() {
		n := so.Normalized(c)
		w := weights.Get(c)
		factors = append(factors, FactorResult{
			Name:       c,
			Normalized: n,
			Weight:     w,
			Weighted:   n * w,
			Degenerate: flat[c],
		})
	}
	return factors
}
