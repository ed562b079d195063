package scoring

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
)

// Criterion names one of the four scored columns.
type Criterion string

const (
	Cost                Criterion = "cost"
	Durability          Criterion = "durability"
	EnvironmentalImpact Criterion = "environmental_impact"
	Reusability         Criterion = "reusability"
)

// Criteria returns the criteria in table column order.
func Criteria() []Criterion {
	return []Criterion{Cost, Durability, EnvironmentalImpact, Reusability}
}

// ParseCriterion accepts the canonical name or a short alias.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cost", "c":
		return Cost, nil
	case "durability", "d":
		return Durability, nil
	case "environmental_impact", "environmental-impact", "environment", "env", "e":
		return EnvironmentalImpact, nil
	case "reusability", "reuse", "r":
		return Reusability, nil
	}
	return "", fmt.Errorf("unknown criterion %q", s)
}

// LowerIsBetter reports whether raw values are negated before normalization.
func (c Criterion) LowerIsBetter() bool {
	return c == Cost || c == EnvironmentalImpact
}

// Label is the human-readable column title.
func (c Criterion) Label() string {
	switch c {
	case Cost:
		return "Cost"
	case Durability:
		return "Durability"
	case EnvironmentalImpact:
		return "Environmental Impact"
	case Reusability:
		return "Reusability"
	}
	return string(c)
}

// Raw returns the unnormalized value of c for o.
func (c Criterion) Raw(o catalog.Option) float64 {
	switch c {
	case Cost:
		return o.Cost
	case Durability:
		return o.Durability
	case EnvironmentalImpact:
		return o.EnvironmentalImpact
	case Reusability:
		return o.Reusability
	}
	return 0
}
