package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
	"github.com/MikeSquared-Agency/Packrank/internal/chart"
	"github.com/MikeSquared-Agency/Packrank/internal/events"
	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
	"github.com/MikeSquared-Agency/Packrank/internal/shell"
)

// Source tags WeightsChanged messages that arrive over HTTP.
const Source = "api"

// Engine is the scoring entry point the handlers drive.
type Engine interface {
	Handle(msg scoring.WeightsChanged) scoring.Ranking
	Options() []catalog.Option
}

type RankingHandler struct {
	engine    Engine
	builder   *chart.Builder
	renderer  *chart.TextRenderer
	publisher *events.Publisher
	defaults  scoring.WeightVector
}

func NewRankingHandler(e Engine, b *chart.Builder, tr *chart.TextRenderer, p *events.Publisher, defaults scoring.WeightVector) *RankingHandler {
	return &RankingHandler{engine: e, builder: b, renderer: tr, publisher: p, defaults: defaults}
}

// RankingResponse is a ranking plus an advisory note when a weight lies
// outside the slider range. Such weights are still used as given.
type RankingResponse struct {
	scoring.Ranking
	Warning string `json:"warning,omitempty"`
}

// decodeWeights reads a WeightVector body. Fields left out keep their
// default; an empty body means the defaults.
func (h *RankingHandler) decodeWeights(r *http.Request) (scoring.WeightVector, error) {
	w := h.defaults
	if err := json.NewDecoder(r.Body).Decode(&w); err != nil && !errors.Is(err, io.EOF) {
		return w, err
	}
	return w, nil
}

func (h *RankingHandler) rank(r *http.Request) (scoring.Ranking, error) {
	weights, err := h.decodeWeights(r)
	if err != nil {
		return scoring.Ranking{}, err
	}
	msg := scoring.WeightsChanged{Weights: weights, Source: Source}
	h.publisher.WeightsChanged(msg)
	ranking := h.engine.Handle(msg)
	if !ranking.Finite() {
		return scoring.Ranking{}, errNonFinite
	}
	h.publisher.RankingComputed(ranking)
	return ranking, nil
}

var errNonFinite = errors.New("weights too large: scores are not finite numbers")

// writeRankError maps a rank failure to its response.
func writeRankError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNonFinite) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid weights body"})
}

func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}

func writeText(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Options returns the loaded catalog in table order.
// GET /api/v1/options
func (h *RankingHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Options())
}

// DefaultWeights returns the initial slider positions.
// GET /api/v1/weights/default
func (h *RankingHandler) DefaultWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.defaults)
}

// Rank scores every option for the posted weights.
// POST /api/v1/ranking
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rank(r)
	if err != nil {
		writeRankError(w, err)
		return
	}
	resp := RankingResponse{Ranking: ranking}
	if err := ranking.Weights.InRange(); err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Chart builds one chart for the posted weights. ?format=text returns the
// terminal rendering instead of the figure.
// POST /api/v1/charts/{kind}
func (h *RankingHandler) Chart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ranking, err := h.rank(r)
	if err != nil {
		writeRankError(w, err)
		return
	}
	fig, err := h.builder.Build(kind, ranking)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.publisher.ChartSelected(string(kind))

	if wantsText(r) {
		var buf bytes.Buffer
		if err := h.renderer.Render(&buf, fig); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeText(w, &buf)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// Table returns every option with normalized values, score and Pareto flag.
// POST /api/v1/table
func (h *RankingHandler) Table(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.rank(r)
	if err != nil {
		writeRankError(w, err)
		return
	}
	tab := chart.BuildTable(ranking, h.engine.Options())
	if wantsText(r) {
		var buf bytes.Buffer
		h.renderer.RenderTable(&buf, tab)
		writeText(w, &buf)
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

// Explain returns one option's score breakdown for the posted weights.
// POST /api/v1/explain/{name}
func (h *RankingHandler) Explain(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ranking, err := h.rank(r)
	if err != nil {
		writeRankError(w, err)
		return
	}
	so, ok := ranking.Find(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ranking_id": ranking.ID,
		"name":       so.Name,
		"rank":       so.Rank,
		"score":      so.Score,
		"factors":    scoring.Contributions(so, ranking.Weights, ranking.Degenerate),
	})
}

type dialog struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// GET /api/v1/info
func (h *RankingHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dialog{Title: shell.InfoTitle, Text: shell.InfoText})
}

// GET /api/v1/formula
func (h *RankingHandler) Formula(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dialog{Title: shell.FormulaTitle, Text: shell.FormulaText})
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a JSON error body with a matching status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
