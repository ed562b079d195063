package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *RankingHandler, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", h.Options)
		r.Get("/weights/default", h.DefaultWeights)
		r.Post("/ranking", h.Rank)
		r.Post("/charts/{kind}", h.Chart)
		r.Post("/table", h.Table)
		r.Post("/explain/{name}", h.Explain)
		r.Get("/info", h.Info)
		r.Get("/formula", h.Formula)
	})

	return r
}

// NewMetricsRouter serves /health and the metrics gathered by g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
