package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
)

// FailureRecorder counts failed publishes.
type FailureRecorder interface {
	PublishFailed()
}

// Publisher mirrors shell and engine activity onto the bus. A Publisher with
// a nil client drops everything, so callers never branch on whether events
// are configured.
type Publisher struct {
	client   Client
	failures FailureRecorder
	logger   *slog.Logger
}

func NewPublisher(c Client, failures FailureRecorder, logger *slog.Logger) *Publisher {
	return &Publisher{client: c, failures: failures, logger: logger}
}

func (p *Publisher) publish(subject string, data interface{}) {
	if p == nil || p.client == nil {
		return
	}
	if err := p.client.Publish(subject, data); err != nil {
		p.logger.Warn("event publish failed", "subject", subject, "error", err)
		if p.failures != nil {
			p.failures.PublishFailed()
		}
	}
}

func (p *Publisher) WeightsChanged(msg scoring.WeightsChanged) {
	p.publish(SubjectWeightsChanged, WeightsChangedEvent{
		Weights:   msg.Weights,
		Source:    msg.Source,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) RankingComputed(r scoring.Ranking) {
	p.publish(SubjectRankingComputed(r.ID.String()), NewRankingComputed(r))
}

func (p *Publisher) ChartSelected(kind string) {
	p.publish(SubjectChartSelected, ChartSelectedEvent{Kind: kind, Timestamp: time.Now().UTC()})
}

// Handler is the engine entry point for WeightsChanged messages.
type Handler interface {
	Handle(msg scoring.WeightsChanged) scoring.Ranking
}

// BindEngine subscribes h to WeightsChanged messages arriving on the bus and
// publishes each resulting ranking. Messages published by this process are
// ignored via their source tag.
func BindEngine(c Client, h Handler, self string, pub *Publisher, logger *slog.Logger) error {
	return c.Subscribe(SubjectWeightsChanged, func(subject string, data []byte) {
		var evt WeightsChangedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			logger.Warn("invalid weights event", "subject", subject, "error", err)
			return
		}
		if evt.Source == self {
			return
		}
		r := h.Handle(scoring.WeightsChanged{Weights: evt.Weights, Source: evt.Source})
		logger.Info("ranking computed from bus event",
			"ranking_id", r.ID,
			"source", evt.Source,
			"top", topName(r),
		)
		pub.RankingComputed(r)
	})
}

func topName(r scoring.Ranking) string {
	if len(r.Options) == 0 {
		return ""
	}
	return r.Options[0].Name
}
