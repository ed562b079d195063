package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

// ErrUnknownChart is returned for a chart kind that has no builder.
var ErrUnknownChart = errors.New("unknown chart kind")

// Kind selects one of the chart builders.
type Kind string

const (
	Bar     Kind = "bar"
	Stacked Kind = "stacked"
	Bubble  Kind = "bubble"
	Line    Kind = "line"
)

// Kinds returns every chart kind in menu order.
func Kinds() []Kind {
	return []Kind{Bar, Stacked, Bubble, Line}
}

// ParseKind validates s as a chart kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// Series is one named sequence of values aligned with Figure.Categories.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
	Marker string    `json:"marker,omitempty"`
}

// Point is one bubble. Color carries the score and is mapped onto a
// colormap by the front end.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color float64 `json:"color"`
}

// Figure is a renderer-neutral description of one chart.
type Figure struct {
	Kind        Kind                 `json:"kind"`
	Title       string               `json:"title"`
	XLabel      string               `json:"x_label,omitempty"`
	YLabel      string               `json:"y_label,omitempty"`
	ColorLabel  string               `json:"color_label,omitempty"`
	Colormap    string               `json:"colormap,omitempty"`
	Horizontal  bool                 `json:"horizontal,omitempty"`
	StackSeries bool                 `json:"stack_series,omitempty"`
	Categories  []string             `json:"categories,omitempty"`
	Series      []Series             `json:"series,omitempty"`
	Points      []Point              `json:"points,omitempty"`
	RankingID   string               `json:"ranking_id"`
	Weights     scoring.WeightVector `json:"weights"`
}

// Options controls prefix sizes and bubble scaling.
type Options struct {
	BarTop      int
	StackedTop  int
	BubbleTop   int
	LineTop     int
	BubbleScale float64
}

// DefaultOptions shows the top 7 for bar and stacked charts and the top 10
// for bubble and line charts.
func DefaultOptions() Options {
	return Options{
		BarTop:      7,
		StackedTop:  7,
		BubbleTop:   10,
		LineTop:     10,
		BubbleScale: 1000,
	}
}

// Recorder is notified after each successful build.
type Recorder interface {
	ChartRendered(kind string)
}

// Builder turns rankings into figures.
type Builder struct {
	opts     Options
	recorder Recorder
}

// NewBuilder returns a Builder. rec may be nil.
func NewBuilder(opts Options, rec Recorder) *Builder {
	return &Builder{opts: opts, recorder: rec}
}

// Build returns the figure of the given kind for r. The kind is always
// passed explicitly; the builder keeps no notion of a current chart.
func (b *Builder) Build(kind Kind, r scoring.Ranking) (Figure, error) {
	var fig Figure
	switch kind {
	case Bar:
		fig = b.bar(r)
	case Stacked:
		fig = b.stacked(r)
	case Bubble:
		fig = b.bubble(r)
	case Line:
		fig = b.line(r)
	default:
		return Figure{}, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	fig.Kind = kind
	fig.RankingID = r.ID.String()
	fig.Weights = r.Weights
	if b.recorder != nil {
		b.recorder.ChartRendered(string(kind))
	}
	return fig, nil
}

func names(top []scoring.ScoredOption) []string {
	out := make([]string, len(top))
	for i, so := range top {
		out[i] = so.Name
	}
	return out
}

func (b *Builder) bar(r scoring.Ranking) Figure {
	top := r.Top(b.opts.BarTop)
	scores := make([]float64, len(top))
	for i, so := range top {
		scores[i] = so.Score
	}
	return Figure{
		Title:      "Top Packaging Recommendations",
		XLabel:     "Score",
		Horizontal: true,
		Categories: names(top),
		Series:     []Series{{Name: "Score", Values: scores, Color: "green"}},
	}
}

var stackColors = map[scoring.Criterion]string{
	scoring.Cost:                "#f77",
	scoring.Durability:          "#7cf",
	scoring.EnvironmentalImpact: "#8f8",
	scoring.Reusability:         "#fc8",
}

func (b *Builder) stacked(r scoring.Ranking) Figure {
	top := r.Top(b.opts.StackedTop)
	fig := Figure{
		Title:       "Stacked Comparison of Parameters",
		YLabel:      "Normalized Contribution",
		StackSeries: true,
		Categories:  names(top),
	}
	for _, c := range scoring.Criteria() {
		fig.Series = append(fig.Series, Series{
			Name:   c.Label(),
			Values: normalizedColumn(top, c),
			Color:  stackColors[c],
		})
	}
	return fig
}

func (b *Builder) bubble(r scoring.Ranking) Figure {
	top := r.Top(b.opts.BubbleTop)
	fig := Figure{
		Title:      "Bubble Chart (Cost vs Environmental Impact)",
		XLabel:     "Environmental Impact (Lower is Better)",
		YLabel:     "Cost (Lower is Better)",
		ColorLabel: "Score",
		Colormap:   "viridis",
	}
	for _, so := range top {
		fig.Points = append(fig.Points, Point{
			Label: so.Name,
			X:     so.EnvironmentalImpact,
			Y:     so.Cost,
			Size:  so.Reusability * b.opts.BubbleScale,
			Color: so.Score,
		})
	}
	return fig
}

var lineMarkers = map[scoring.Criterion]string{
	scoring.Cost:                "o",
	scoring.Durability:          "s",
	scoring.EnvironmentalImpact: "^",
	scoring.Reusability:         "x",
}

func (b *Builder) line(r scoring.Ranking) Figure {
	top := r.Top(b.opts.LineTop)
	fig := Figure{
		Title:      "Line Chart of Normalized Parameters",
		YLabel:     "Normalized Value",
		Categories: names(top),
	}
	for _, c := range scoring.Criteria() {
		fig.Series = append(fig.Series, Series{
			Name:   c.Label(),
			Values: normalizedColumn(top, c),
			Marker: lineMarkers[c],
		})
	}
	return fig
}

func normalizedColumn(top []scoring.ScoredOption, c scoring.Criterion) []float64 {
	out := make([]float64, len(top))
	for i, so := range top {
		out[i] = so.Normalized(c)
	}
	return out
}
