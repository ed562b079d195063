package scoring

import (
	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
)

// Frontier returns the names of Pareto-optimal options. An option is
// dominated if another option is at least as good on every raw criterion
// (lower cost and impact, higher durability and reusability) and strictly
// better on at least one.
// O(n^2) dominance check, fine for a memory-resident table.
func Frontier(options []catalog.Option) map[string]bool {
	frontier := make(map[string]bool, len(options))
	for i := range options {
		dominated := false
		for j := range options {
			if i == j {
				continue
			}
			if dominates(options[j], options[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier[options[i].Name] = true
		}
	}
	return frontier
}

// dominates returns true if a dominates b.
func dominates(a, b catalog.Option) bool {
	if a.Cost > b.Cost || a.EnvironmentalImpact > b.EnvironmentalImpact ||
		a.Durability < b.Durability || a.Reusability < b.Reusability {
		return false
	}
	return a.Cost < b.Cost || a.EnvironmentalImpact < b.EnvironmentalImpact ||
		a.Durability > b.Durability || a.Reusability > b.Reusability
}
