package events

import (
	"time"

	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

type WeightsChangedEvent struct {
	Weights   scoring.WeightVector `json:"weights"`
	Source    string               `json:"source,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

type ChartSelectedEvent struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// RankedEntry is the compact per-option summary carried on the wire.
type RankedEntry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type RankingComputedEvent struct {
	RankingID  string               `json:"ranking_id"`
	Weights    scoring.WeightVector `json:"weights"`
	Ranking    []RankedEntry        `json:"ranking"`
	Degenerate []scoring.Criterion  `json:"degenerate,omitempty"`
	Timestamp  time.Time            `json:"timestamp"`
}

// NewRankingComputed summarizes r for publication.
func NewRankingComputed(r scoring.Ranking) RankingComputedEvent {
	entries := make([]RankedEntry, len(r.Options))
	for i, so := range r.Options {
		entries[i] = RankedEntry{Rank: so.Rank, Name: so.Name, Score: so.Score}
	}
	return RankingComputedEvent{
		RankingID:  r.ID.String(),
		Weights:    r.Weights,
		Ranking:    entries,
		Degenerate: r.Degenerate,
		Timestamp:  time.Now().UTC(),
	}
}
