package chart

import (
	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

// TableRow is one option in the tabular view.
type TableRow struct {
	scoring.ScoredOption
	Pareto bool `json:"pareto"`
}

// Table lists every option of a ranking with raw and normalized columns.
type Table struct {
	Title      string               `json:"title"`
	RankingID  string               `json:"ranking_id"`
	Weights    scoring.WeightVector `json:"weights"`
	Degenerate []scoring.Criterion  `json:"degenerate,omitempty"`
	Rows       []TableRow           `json:"rows"`
}

// BuildTable returns all rows of r in rank order, flagging options on the
// Pareto frontier of opts.
func BuildTable(r scoring.Ranking, opts []catalog.Option) Table {
	frontier := scoring.Frontier(opts)
	t := Table{
		Title:      "Normalized Values & Scores",
		RankingID:  r.ID.String(),
		Weights:    r.Weights,
		Degenerate: r.Degenerate,
		Rows:       make([]TableRow, len(r.Options)),
	}
	for i, so := range r.Options {
		t.Rows[i] = TableRow{ScoredOption: so, Pareto: frontier[so.Name]}
	}
	return t
}
