package scoring

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts []catalog.Option) *Engine {
	t.Helper()
	c, err := catalog.New(opts)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewEngine(c, nil, discardLogger())
}

func sampleOptions() []catalog.Option {
	return []catalog.Option{
		{Name: "Cardboard Box", Cost: 2.5, Durability: 6, EnvironmentalImpact: 3, Reusability: 5},
		{Name: "Plastic Crate", Cost: 8, Durability: 9, EnvironmentalImpact: 7, Reusability: 9},
		{Name: "Bubble Wrap", Cost: 1.2, Durability: 3, EnvironmentalImpact: 8, Reusability: 2},
		{Name: "Glass Jar", Cost: 4, Durability: 4, EnvironmentalImpact: 4, Reusability: 8},
		{Name: "Paper Bag", Cost: 0.5, Durability: 2, EnvironmentalImpact: 1, Reusability: 3},
	}
}

func byName(r Ranking) map[string]ScoredOption {
	m := make(map[string]ScoredOption, len(r.Options))
	for _, so := range r.Options {
		m[so.Name] = so
	}
	return m
}

func TestComputeRankingExample(t *testing.T) {
	e := newTestEngine(t, []catalog.Option{
		{Name: "A", Cost: 10, Durability: 5, EnvironmentalImpact: 2, Reusability: 1},
		{Name: "B", Cost: 2, Durability: 1, EnvironmentalImpact: 8, Reusability: 9},
	})

	r := e.ComputeRanking(WeightVector{Cost: 1})
	got := byName(r)

	if got["A"].CostNorm != 0 {
		t.Errorf("expected A cost_norm 0, got %f", got["A"].CostNorm)
	}
	if got["B"].CostNorm != 1 {
		t.Errorf("expected B cost_norm 1, got %f", got["B"].CostNorm)
	}
	if got["A"].Score != 0 || got["B"].Score != 1 {
		t.Errorf("expected scores A=0 B=1, got A=%f B=%f", got["A"].Score, got["B"].Score)
	}
	if r.Options[0].Name != "B" {
		t.Errorf("expected B first, got %s", r.Options[0].Name)
	}
	if r.Options[0].Rank != 1 || r.Options[1].Rank != 2 {
		t.Errorf("expected ranks 1,2, got %d,%d", r.Options[0].Rank, r.Options[1].Rank)
	}
}

func TestComputeRankingOneEntryPerOption(t *testing.T) {
	opts := sampleOptions()
	e := newTestEngine(t, opts)
	r := e.ComputeRanking(DefaultWeights())

	if len(r.Options) != len(opts) {
		t.Fatalf("expected %d entries, got %d", len(opts), len(r.Options))
	}
	seen := make(map[string]bool)
	for _, so := range r.Options {
		if seen[so.Name] {
			t.Errorf("duplicate entry %s", so.Name)
		}
		seen[so.Name] = true
	}
	for i := 1; i < len(r.Options); i++ {
		if r.Options[i-1].Score < r.Options[i].Score {
			t.Errorf("not sorted descending at %d: %f < %f", i, r.Options[i-1].Score, r.Options[i].Score)
		}
	}
}

func TestNormalizedValuesInUnitRange(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	r := e.ComputeRanking(DefaultWeights())

	for _, so := range r.Options {
		for _, c := range Criteria() {
			if v := so.Normalized(c); v < 0 || v > 1 {
				t.Errorf("%s %s normalized %f outside [0,1]", so.Name, c, v)
			}
		}
	}
}

func TestBestRawValueNormalizesToOne(t *testing.T) {
	opts := sampleOptions()
	e := newTestEngine(t, opts)
	r := e.ComputeRanking(DefaultWeights())

	for _, c := range Criteria() {
		best := opts[0]
		for _, o := range opts[1:] {
			if c.LowerIsBetter() && c.Raw(o) < c.Raw(best) ||
				!c.LowerIsBetter() && c.Raw(o) > c.Raw(best) {
				best = o
			}
		}
		for _, so := range r.Options {
			isOne := so.Normalized(c) == 1
			if isOne != (so.Name == best.Name) {
				t.Errorf("%s: %s normalized=%f, best is %s", c, so.Name, so.Normalized(c), best.Name)
			}
		}
	}
}

func TestScoreMonotonicInWeight(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	base := DefaultWeights()

	for _, c := range Criteria() {
		t.Run(string(c), func(t *testing.T) {
			lo := byName(e.ComputeRanking(base.With(c, 0.2)))
			hi := byName(e.ComputeRanking(base.With(c, 0.9)))
			for name, so := range lo {
				if hi[name].Score < so.Score {
					t.Errorf("%s: score decreased from %f to %f", name, so.Score, hi[name].Score)
				}
			}
		})
	}
}

func TestZeroWeightsKeepTableOrder(t *testing.T) {
	opts := sampleOptions()
	e := newTestEngine(t, opts)
	r := e.ComputeRanking(WeightVector{})

	for i, so := range r.Options {
		if so.Score != 0 {
			t.Errorf("%s: expected score 0, got %f", so.Name, so.Score)
		}
		if so.Name != opts[i].Name {
			t.Errorf("position %d: expected %s, got %s", i, opts[i].Name, so.Name)
		}
	}
}

func TestMirroredOptionsScoreSymmetrically(t *testing.T) {
	e := newTestEngine(t, []catalog.Option{
		{Name: "A", Cost: 1, Durability: 9, EnvironmentalImpact: 9, Reusability: 1},
		{Name: "B", Cost: 9, Durability: 1, EnvironmentalImpact: 1, Reusability: 9},
	})
	got := byName(e.ComputeRanking(DefaultWeights()))

	if got["A"].Score != got["B"].Score {
		t.Errorf("expected symmetric scores, got A=%f B=%f", got["A"].Score, got["B"].Score)
	}
	if math.Abs(got["A"].Score-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", got["A"].Score)
	}
}

func TestComputeRankingDeterministic(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	w := WeightVector{Cost: 0.3, Durability: 0.7, EnvironmentalImpact: 0.1, Reusability: 0.5}

	first := e.ComputeRanking(w)
	second := e.ComputeRanking(w)
	if !reflect.DeepEqual(first.Options, second.Options) {
		t.Error("expected identical ordered sequences for identical weights")
	}
	if first.ID == second.ID {
		t.Error("expected a fresh ranking ID per computation")
	}
}

func TestOutOfRangeWeightsAccepted(t *testing.T) {
	e := newTestEngine(t, []catalog.Option{
		{Name: "A", Cost: 10, Durability: 5, EnvironmentalImpact: 2, Reusability: 1},
		{Name: "B", Cost: 2, Durability: 1, EnvironmentalImpact: 8, Reusability: 9},
	})
	got := byName(e.ComputeRanking(WeightVector{Cost: -2, Reusability: 3}))

	if got["B"].Score != 1 {
		t.Errorf("expected B=-2*1+3*1=1, got %f", got["B"].Score)
	}
	if got["A"].Score != 0 {
		t.Errorf("expected A=0, got %f", got["A"].Score)
	}
}

func TestZeroVarianceFallback(t *testing.T) {
	e := newTestEngine(t, []catalog.Option{
		{Name: "A", Cost: 3, Durability: 5, EnvironmentalImpact: 2, Reusability: 1},
		{Name: "B", Cost: 3, Durability: 1, EnvironmentalImpact: 8, Reusability: 9},
	})
	r := e.ComputeRanking(WeightVector{Cost: 1})

	if !reflect.DeepEqual(r.Degenerate, []Criterion{Cost}) {
		t.Errorf("expected cost degenerate, got %v", r.Degenerate)
	}
	for _, so := range r.Options {
		if so.CostNorm != DegenerateValue {
			t.Errorf("%s: expected fallback %f, got %f", so.Name, DegenerateValue, so.CostNorm)
		}
		if math.IsNaN(so.Score) {
			t.Errorf("%s: NaN score", so.Name)
		}
	}
	if r.Options[0].Name != "A" {
		t.Errorf("tied scores should keep table order, got %s first", r.Options[0].Name)
	}
}

func TestSingleOptionIsDegenerateOnEveryCriterion(t *testing.T) {
	e := newTestEngine(t, []catalog.Option{{Name: "Only", Cost: 1, Durability: 1, EnvironmentalImpact: 1, Reusability: 1}})
	r := e.ComputeRanking(DefaultWeights())

	if len(r.Degenerate) != 4 {
		t.Errorf("expected 4 degenerate criteria, got %v", r.Degenerate)
	}
	if r.Options[0].Score != 0.5 {
		t.Errorf("expected 0.5, got %f", r.Options[0].Score)
	}
}

func TestHandleWeightsChanged(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	w := WeightVector{Durability: 1}

	r := e.Handle(WeightsChanged{Weights: w, Source: "test"})
	if r.Weights != w {
		t.Errorf("expected weights %v, got %v", w, r.Weights)
	}
	if r.Options[0].Name != "Plastic Crate" {
		t.Errorf("expected most durable first, got %s", r.Options[0].Name)
	}
}

func TestRankingTop(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	r := e.ComputeRanking(DefaultWeights())

	if got := len(r.Top(3)); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := len(r.Top(10)); got != 5 {
		t.Errorf("expected prefix capped at 5, got %d", got)
	}
}

func TestRankingFind(t *testing.T) {
	r := newTestEngine(t, sampleOptions()).ComputeRanking(DefaultWeights())

	so, ok := r.Find("glass jar")
	if !ok || so.Name != "Glass Jar" {
		t.Fatalf("expected case-insensitive match for Glass Jar, got %q ok=%v", so.Name, ok)
	}
	if _, ok := r.Find("Tin Can"); ok {
		t.Error("expected no match for unknown name")
	}
}

func TestRankingFinite(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	if !e.ComputeRanking(DefaultWeights()).Finite() {
		t.Error("expected default weights to give finite scores")
	}

	huge := WeightVector{Cost: math.MaxFloat64, Reusability: math.MaxFloat64}
	if e.ComputeRanking(huge).Finite() {
		t.Error("expected overflowing weights to be reported as non-finite")
	}
}

type countingRecorder struct {
	mu         sync.Mutex
	rankings   int
	degenerate []string
}

func (c *countingRecorder) ObserveRanking(time.Duration, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rankings++
}

func (c *countingRecorder) DegenerateCriterion(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.degenerate = append(c.degenerate, name)
}

func TestEngineReportsToRecorder(t *testing.T) {
	c, err := catalog.New([]catalog.Option{
		{Name: "A", Cost: 1, Durability: 2, EnvironmentalImpact: 3, Reusability: 4},
		{Name: "B", Cost: 2, Durability: 2, EnvironmentalImpact: 1, Reusability: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := &countingRecorder{}
	e := NewEngine(c, rec, discardLogger())
	e.ComputeRanking(DefaultWeights())

	if rec.rankings != 1 {
		t.Errorf("expected 1 ranking observed, got %d", rec.rankings)
	}
	if !reflect.DeepEqual(rec.degenerate, []string{"durability"}) {
		t.Errorf("expected durability degenerate, got %v", rec.degenerate)
	}
}

func TestContributionsSumToScore(t *testing.T) {
	e := newTestEngine(t, sampleOptions())
	w := WeightVector{Cost: 0.4, Durability: 0.1, EnvironmentalImpact: 0.8, Reusability: 0.3}
	r := e.ComputeRanking(w)

	for _, so := range r.Options {
		factors := Contributions(so, w, r.Degenerate)
		if len(factors) != 4 {
			t.Fatalf("expected 4 factors, got %d", len(factors))
		}
		var total float64
		for _, f := range factors {
			total += f.Weighted
		}
		if math.Abs(total-so.Score) > 1e-12 {
			t.Errorf("%s: contributions sum %f, score %f", so.Name, total, so.Score)
		}
	}
}
