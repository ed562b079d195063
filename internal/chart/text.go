package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var stackGlyphs = []string{"█", "▓", "▒", "░"}

var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// TextRenderer draws figures and tables for a terminal.
type TextRenderer struct {
	Width int
}

func NewTextRenderer(width int) *TextRenderer {
	if width <= 0 {
		width = 60
	}
	return &TextRenderer{Width: width}
}

// Render writes fig to w.
func (tr *TextRenderer) Render(w io.Writer, fig Figure) error {
	switch fig.Kind {
	case Bar:
		tr.renderBar(w, fig)
	case Stacked:
		tr.renderStacked(w, fig)
	case Bubble:
		tr.renderBubble(w, fig)
	case Line:
		tr.renderLine(w, fig)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, fig.Kind)
	}
	return nil
}

func newWriter(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

func (tr *TextRenderer) renderBar(w io.Writer, fig Figure) {
	t := newWriter(w, fig.Title)
	t.AppendHeader(table.Row{"#", "PACKAGING", strings.ToUpper(fig.XLabel), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	var scores []float64
	if len(fig.Series) > 0 {
		scores = fig.Series[0].Values
	}
	peak := 0.0
	for _, v := range scores {
		peak = math.Max(peak, v)
	}
	for i, name := range fig.Categories {
		v := scores[i]
		t.AppendRow(table.Row{i + 1, name, fmt.Sprintf("%.3f", v), strings.Repeat("█", scaled(v, peak, tr.Width))})
	}
	t.Render()
}

func (tr *TextRenderer) renderStacked(w io.Writer, fig Figure) {
	t := newWriter(w, fig.Title)
	header := table.Row{"PACKAGING"}
	legend := make([]string, len(fig.Series))
	for i, s := range fig.Series {
		header = append(header, strings.ToUpper(s.Name))
		legend[i] = stackGlyphs[i%len(stackGlyphs)] + " " + s.Name
	}
	header = append(header, strings.ToUpper(fig.YLabel))
	t.AppendHeader(header)

	// Each segment is scaled against the largest possible stack, one unit
	// per series.
	peak := float64(len(fig.Series))
	for i, name := range fig.Categories {
		row := table.Row{name}
		var bar strings.Builder
		for j, s := range fig.Series {
			v := s.Values[i]
			row = append(row, fmt.Sprintf("%.2f", v))
			bar.WriteString(strings.Repeat(stackGlyphs[j%len(stackGlyphs)], scaled(v, peak, tr.Width)))
		}
		row = append(row, bar.String())
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{strings.Join(legend, "  ")})
	t.Render()
}

func (tr *TextRenderer) renderBubble(w io.Writer, fig Figure) {
	t := newWriter(w, fig.Title)
	t.AppendHeader(table.Row{"PACKAGING", strings.ToUpper(fig.XLabel), strings.ToUpper(fig.YLabel), "SIZE", strings.ToUpper(fig.ColorLabel)})
	for _, p := range fig.Points {
		t.AppendRow(table.Row{p.Label, fmt.Sprintf("%g", p.X), fmt.Sprintf("%g", p.Y), fmt.Sprintf("%g", p.Size), fmt.Sprintf("%.3f", p.Color)})
	}
	t.Render()
}

func (tr *TextRenderer) renderLine(w io.Writer, fig Figure) {
	t := newWriter(w, fig.Title)
	header := table.Row{"PACKAGING"}
	for _, s := range fig.Series {
		header = append(header, fmt.Sprintf("%s (%s)", strings.ToUpper(s.Name), s.Marker))
	}
	t.AppendHeader(header)
	for i, name := range fig.Categories {
		row := table.Row{name}
		for _, s := range fig.Series {
			row = append(row, fmt.Sprintf("%.2f", s.Values[i]))
		}
		t.AppendRow(row)
	}
	footer := table.Row{"TREND"}
	for _, s := range fig.Series {
		footer = append(footer, sparkline(s.Values))
	}
	t.AppendFooter(footer)
	t.Render()
}

// RenderTable writes the full tabular view to w.
func (tr *TextRenderer) RenderTable(w io.Writer, tab Table) {
	t := newWriter(w, tab.Title)
	t.AppendHeader(table.Row{
		"#", "PACKAGING", "COST", "DURABILITY", "ENV IMPACT", "REUSABILITY",
		"COST NORM", "DURABILITY NORM", "ENV IMPACT NORM", "REUSABILITY NORM", "SCORE", "PARETO",
	})
	for _, r := range tab.Rows {
		pareto := ""
		if r.Pareto {
			pareto = "yes"
		}
		t.AppendRow(table.Row{
			r.Rank, r.Name,
			fmt.Sprintf("%g", r.Cost), fmt.Sprintf("%g", r.Durability),
			fmt.Sprintf("%g", r.EnvironmentalImpact), fmt.Sprintf("%g", r.Reusability),
			fmt.Sprintf("%.3f", r.CostNorm), fmt.Sprintf("%.3f", r.DurabilityNorm),
			fmt.Sprintf("%.3f", r.EnvironmentalImpactNorm), fmt.Sprintf("%.3f", r.ReusabilityNorm),
			fmt.Sprintf("%.3f", r.Score), pareto,
		})
	}
	if len(tab.Degenerate) > 0 {
		names := make([]string, len(tab.Degenerate))
		for i, c := range tab.Degenerate {
			names[i] = c.Label()
		}
		t.AppendFooter(table.Row{"", "zero variance: " + strings.Join(names, ", ")})
	}
	t.Render()
}

func scaled(v, peak float64, width int) int {
	if v <= 0 || peak <= 0 {
		return 0
	}
	return int(math.Round(v / peak * float64(width)))
}

func sparkline(values []float64) string {
	var b strings.Builder
	top := len(sparkGlyphs) - 1
	for _, v := range values {
		i := int(math.Round(math.Max(0, math.Min(1, v)) * float64(top)))
		b.WriteRune(sparkGlyphs[i])
	}
	return b.String()
}
