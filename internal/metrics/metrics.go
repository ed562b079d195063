package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for ranking and rendering.
type Metrics struct {
	RankingsTotal      prometheus.Counter
	RankingDuration    prometheus.Histogram
	RankedOptions      prometheus.Gauge
	DegenerateTotal    *prometheus.CounterVec
	ChartRendersTotal  *prometheus.CounterVec
	EventPublishErrors prometheus.Counter
}

// New registers all collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RankingsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "packrank_rankings_total",
			Help: "Total number of rankings computed",
		}),
		RankingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "packrank_ranking_duration_seconds",
			Help:    "Time spent normalizing, scoring and sorting",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		RankedOptions: f.NewGauge(prometheus.GaugeOpts{
			Name: "packrank_ranked_options",
			Help: "Number of options in the most recent ranking",
		}),
		DegenerateTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "packrank_degenerate_criterion_total",
			Help: "Rankings in which a criterion had zero variance",
		}, []string{"criterion"}),
		ChartRendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "packrank_chart_renders_total",
			Help: "Charts built, by kind",
		}, []string{"kind"}),
		EventPublishErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "packrank_event_publish_errors_total",
			Help: "Failed event publishes",
		}),
	}
}

func (m *Metrics) ObserveRanking(d time.Duration, options int) {
	m.RankingsTotal.Inc()
	m.RankingDuration.Observe(d.Seconds())
	m.RankedOptions.Set(float64(options))
}

func (m *Metrics) DegenerateCriterion(c string) {
	m.DegenerateTotal.WithLabelValues(c).Inc()
}

func (m *Metrics) ChartRendered(kind string) {
	m.ChartRendersTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) PublishFailed() {
	m.EventPublishErrors.Inc()
}
