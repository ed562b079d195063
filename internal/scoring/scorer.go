package scoring

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
)

// ScoredOption is an option enriched with its normalized criteria and the
// aggregate score for one WeightVector.
type ScoredOption struct {
	catalog.Option
	Rank                    int     `json:"rank"`
	CostNorm                float64 `json:"cost_norm"`
	DurabilityNorm          float64 `json:"durability_norm"`
	EnvironmentalImpactNorm float64 `json:"environmental_impact_norm"`
	ReusabilityNorm         float64 `json:"reusability_norm"`
	Score                   float64 `json:"score"`
}

// Normalized returns the normalized value of c.
func (so ScoredOption) Normalized(c Criterion) float64 {
	switch c {
	case Cost:
		return so.CostNorm
	case Durability:
		return so.DurabilityNorm
	case EnvironmentalImpact:
		return so.EnvironmentalImpactNorm
	case Reusability:
		return so.ReusabilityNorm
	}
	return 0
}

func (so *ScoredOption) setNormalized(c Criterion, v float64) {
	switch c {
	case Cost:
		so.CostNorm = v
	case Durability:
		so.DurabilityNorm = v
	case EnvironmentalImpact:
		so.EnvironmentalImpactNorm = v
	case Reusability:
		so.ReusabilityNorm = v
	}
}

// Ranking is the full ordered result of one computation.
type Ranking struct {
	ID         uuid.UUID      `json:"id"`
	Weights    WeightVector   `json:"weights"`
	Options    []ScoredOption `json:"options"`
	Degenerate []Criterion    `json:"degenerate,omitempty"`
}

// Top returns at most n leading options.
func (r Ranking) Top(n int) []ScoredOption {
	if n < 0 || n > len(r.Options) {
		n = len(r.Options)
	}
	return r.Options[:n]
}

// Find returns the option named name, compared case-insensitively.
func (r Ranking) Find(name string) (ScoredOption, bool) {
	for _, so := range r.Options {
		if strings.EqualFold(so.Name, name) {
			return so, true
		}
	}
	return ScoredOption{}, false
}

// Finite reports whether every score is a finite number. Very large weights
// can overflow a score to ±Inf, or to NaN when signs are mixed.
func (r Ranking) Finite() bool {
	for _, so := range r.Options {
		if math.IsInf(so.Score, 0) || math.IsNaN(so.Score) {
			return false
		}
	}
	return true
}

// WeightsChanged is emitted by the presentation layer whenever any weight
// moves. It carries the complete vector.
type WeightsChanged struct {
	Weights WeightVector `json:"weights"`
	Source  string       `json:"source,omitempty"`
}

// Recorder receives engine measurements.
type Recorder interface {
	ObserveRanking(d time.Duration, options int)
	DegenerateCriterion(c string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRanking(time.Duration, int) {}
func (nopRecorder) DegenerateCriterion(string)        {}

// Engine ranks a fixed option set. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	options  []catalog.Option
	recorder Recorder
	logger   *slog.Logger
}

// NewEngine creates an Engine over the catalog's options. rec may be nil.
func NewEngine(c *catalog.Catalog, rec Recorder, logger *slog.Logger) *Engine {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Engine{
		options:  c.Options(),
		recorder: rec,
		logger:   logger,
	}
}

// Options returns a copy of the option set in table order.
func (e *Engine) Options() []catalog.Option {
	out := make([]catalog.Option, len(e.options))
	copy(out, e.options)
	return out
}

// Handle is the entry point for WeightsChanged messages.
func (e *Engine) Handle(msg WeightsChanged) Ranking {
	return e.ComputeRanking(msg.Weights)
}

// ComputeRanking normalizes every criterion over the whole option set,
// scores each option as the weighted sum of its normalized criteria and
// returns all options sorted by score descending. Equal scores keep table
// order.
func (e *Engine) ComputeRanking(weights WeightVector) Ranking {
	start := time.Now()

	scored := make([]ScoredOption, len(e.options))
	for i, o := range e.options {
		scored[i].Option = o
	}

	var degenerate []Criterion
	for _, c := range Criteria() {
		raw := make([]float64, len(e.options))
		for i, o := range e.options {
			raw[i] = c.Raw(o)
		}
		norm, flat := MinMax(raw, c.LowerIsBetter())
		if flat {
			degenerate = append(degenerate, c)
			e.recorder.DegenerateCriterion(string(c))
			e.logger.Warn("criterion has zero variance, using fallback",
				"criterion", c, "fallback", DegenerateValue)
		}
		w := weights.Get(c)
		for i := range scored {
			scored[i].setNormalized(c, norm[i])
			scored[i].Score += norm[i] * w
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	r := Ranking{
		ID:         uuid.New(),
		Weights:    weights,
		Options:    scored,
		Degenerate: degenerate,
	}

	elapsed := time.Since(start)
	e.recorder.ObserveRanking(elapsed, len(scored))
	e.logger.Debug("ranking computed",
		"ranking_id", r.ID,
		"weights", weights.String(),
		"options", len(scored),
		"duration_us", elapsed.Microseconds(),
	)
	return r
}
