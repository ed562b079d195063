package scoring

import (
	"fmt"
)

// WeightVector holds the relative importance of each criterion. Values are
// expected in [0,1] but the engine accepts any real value.
type WeightVector struct {
	Cost                float64 `json:"cost" yaml:"cost"`
	Durability          float64 `json:"durability" yaml:"durability"`
	EnvironmentalImpact float64 `json:"environmental_impact" yaml:"environmental_impact"`
	Reusability         float64 `json:"reusability" yaml:"reusability"`
}

// DefaultWeights returns the starting slider positions.
func DefaultWeights() WeightVector {
	return WeightVector{
		Cost:                0.25,
		Durability:          0.25,
		EnvironmentalImpact: 0.25,
		Reusability:         0.25,
	}
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	return w.Cost + w.Durability + w.EnvironmentalImpact + w.Reusability
}

// Get returns the weight for c.
func (w WeightVector) Get(c Criterion) float64 {
	switch c {
	case Cost:
		return w.Cost
	case Durability:
		return w.Durability
	case EnvironmentalImpact:
		return w.EnvironmentalImpact
	case Reusability:
		return w.Reusability
	}
	return 0
}

// With returns a copy of w with the weight for c replaced.
func (w WeightVector) With(c Criterion, v float64) WeightVector {
	switch c {
	case Cost:
		w.Cost = v
	case Durability:
		w.Durability = v
	case EnvironmentalImpact:
		w.EnvironmentalImpact = v
	case Reusability:
		w.Reusability = v
	}
	return w
}

// InRange reports an error if any weight lies outside [0,1]. It is
// informational: ComputeRanking never rejects weights.
func (w WeightVector) InRange() error {
	for _, c := range Criteria() {
		if v := w.Get(c); v < 0 || v > 1 {
			return fmt.Errorf("%s weight %g outside [0,1]", c, v)
		}
	}
	return nil
}

func (w WeightVector) String() string {
	return fmt.Sprintf("cost=%.2f durability=%.2f environmental_impact=%.2f reusability=%.2f",
		w.Cost, w.Durability, w.EnvironmentalImpact, w.Reusability)
}
