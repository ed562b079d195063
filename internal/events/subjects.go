package events

const (
	SubjectWeightsChanged = "packrank.weights.changed"
	SubjectChartSelected  = "packrank.chart.selected"

	StreamName   = "PACKRANK_EVENTS"
	StreamMaxAge = "24h"
)

func SubjectRankingComputed(rankingID string) string {
	return "packrank.ranking." + rankingID + ".computed"
}
