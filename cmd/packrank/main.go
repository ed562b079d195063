package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Packrank/internal/api"
	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
	"github.com/MikeSquared-Agency/Packrank/internal/chart"
	"github.com/MikeSquared-Agency/Packrank/internal/config"
	"github.com/MikeSquared-Agency/Packrank/internal/events"
	"github.com/MikeSquared-Agency/Packrank/internal/metrics"
	"github.com/MikeSquared-Agency/Packrank/internal/scoring"
	"github.com/MikeSquared-Agency/Packrank/internal/shell"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	dataPath := flag.String("data", "", "path to the packaging CSV (overrides config)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of the terminal shell")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Catalog.Source = "csv"
		cfg.Catalog.Path = *dataPath
	}

	// The shell owns stdout, so its logs go to stderr.
	logOut := os.Stderr
	if *serve {
		logOut = os.Stdout
	}
	logger := newLogger(cfg.Logging, logOut)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		logger.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "source", cfg.Catalog.Source, "options", cat.Len())

	m := metrics.New(prometheus.DefaultRegisterer)
	engine := scoring.NewEngine(cat, m, logger)
	builder := chart.NewBuilder(chart.Options{
		BarTop:      cfg.Charts.BarTop,
		StackedTop:  cfg.Charts.StackedTop,
		BubbleTop:   cfg.Charts.BubbleTop,
		LineTop:     cfg.Charts.LineTop,
		BubbleScale: cfg.Charts.BubbleScale,
	}, m)
	renderer := chart.NewTextRenderer(cfg.Charts.Width)
	defaults := weightsFromConfig(cfg.Scoring.Weights)

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		nc, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = nc
			defer nc.Close()
			logger.Info("connected to nats")
		}
	}
	publisher := events.NewPublisher(eventsClient, m, logger)

	if !*serve {
		kind, err := chart.ParseKind(cfg.Charts.Default)
		if err != nil {
			logger.Error("invalid default chart", "error", err)
			os.Exit(1)
		}
		sh := shell.New(engine, builder, renderer, publisher,
			shell.Config{Initial: defaults, Step: cfg.Scoring.SliderStep},
			os.Stdout, logger)

		sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := sh.Run(sigCtx, os.Stdin, kind); err != nil && sigCtx.Err() == nil {
			logger.Error("shell error", "error", err)
			os.Exit(1)
		}
		return
	}

	if eventsClient != nil {
		if err := events.BindEngine(eventsClient, engine, api.Source, publisher, logger); err != nil {
			logger.Warn("failed to subscribe to weight changes", "error", err)
		}
	}

	// API server
	handler := api.NewRankingHandler(engine, builder, renderer, publisher, defaults)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server.RateLimit, logger),
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(prometheus.DefaultGatherer),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig, out *os.File) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Source == "postgres" {
		src, err := catalog.NewPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return catalog.Load(ctx, src)
	}
	return catalog.Load(ctx, &catalog.CSVSource{Path: cfg.Path, Comma: cfg.Comma()})
}

func weightsFromConfig(w config.ScoringWeights) scoring.WeightVector {
	return scoring.WeightVector{
		Cost:                w.Cost,
		Durability:          w.Durability,
		EnvironmentalImpact: w.EnvironmentalImpact,
		Reusability:         w.Reusability,
	}
}
