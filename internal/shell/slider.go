package shell

import (
	"math"

	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

// Slider is a bounded weight control with fixed step granularity.
type Slider struct {
	Criterion scoring.Criterion
	Min       float64
	Max       float64
	Step      float64
	initial   float64
	value     float64
}

// NewSlider places the slider at initial, clamped to [0,1] but not snapped,
// so an initial 0.25 stays 0.25 until the user moves it.
func NewSlider(c scoring.Criterion, step, initial float64) *Slider {
	s := &Slider{Criterion: c, Min: 0, Max: 1, Step: step}
	s.initial = math.Max(s.Min, math.Min(s.Max, initial))
	s.value = s.initial
	return s
}

// Reset returns the slider to its initial position.
func (s *Slider) Reset() float64 {
	s.value = s.initial
	return s.value
}

// Set clamps v to the slider bounds and snaps it to the nearest step. It
// returns the stored value.
func (s *Slider) Set(v float64) float64 {
	if math.IsNaN(v) {
		v = s.Min
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step > 0 {
		steps := math.Round((v - s.Min) / s.Step)
		v = s.Min + steps*s.Step
		// trim float noise such as 0.30000000000000004
		v = math.Round(v*1e9) / 1e9
		v = math.Min(v, s.Max)
	}
	s.value = v
	return v
}

func (s *Slider) Value() float64 { return s.value }
