package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PACKRANK_PORT", "PACKRANK_METRICS_PORT", "PACKRANK_RATE_LIMIT",
		"PACKRANK_CATALOG_SOURCE", "PACKRANK_DATA_PATH", "PACKRANK_DATABASE_URL",
		"PACKRANK_NATS_URL", "PACKRANK_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimit != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimit)
	}
	if cfg.Catalog.Source != "csv" {
		t.Errorf("expected csv source, got %s", cfg.Catalog.Source)
	}
	if cfg.Catalog.Path != "data/packaging_types.csv" {
		t.Errorf("expected default data path, got %s", cfg.Catalog.Path)
	}
	if cfg.Catalog.Comma() != ',' {
		t.Errorf("expected comma delimiter, got %q", cfg.Catalog.Comma())
	}
	if cfg.Events.URL != "" {
		t.Errorf("expected events disabled by default, got %s", cfg.Events.URL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	sw := cfg.Scoring.Weights
	for name, v := range map[string]float64{
		"cost": sw.Cost, "durability": sw.Durability,
		"environmental_impact": sw.EnvironmentalImpact, "reusability": sw.Reusability,
	} {
		if math.Abs(v-0.25) > 0.001 {
			t.Errorf("scoring weight %s: expected 0.25, got %f", name, v)
		}
	}
	if cfg.Scoring.SliderStep != 0.1 {
		t.Errorf("expected slider step 0.1, got %f", cfg.Scoring.SliderStep)
	}

	ch := cfg.Charts
	if ch.Default != "bar" || ch.BarTop != 7 || ch.StackedTop != 7 || ch.BubbleTop != 10 || ch.LineTop != 10 {
		t.Errorf("unexpected chart defaults: %+v", ch)
	}
	if ch.BubbleScale != 1000 {
		t.Errorf("expected bubble scale 1000, got %f", ch.BubbleScale)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PACKRANK_PORT", "9000")
	t.Setenv("PACKRANK_METRICS_PORT", "9001")
	t.Setenv("PACKRANK_RATE_LIMIT", "10")
	t.Setenv("PACKRANK_CATALOG_SOURCE", "postgres")
	t.Setenv("PACKRANK_DATABASE_URL", "postgres://localhost/packrank_test")
	t.Setenv("PACKRANK_NATS_URL", "nats://nats:4222")
	t.Setenv("PACKRANK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimit != 10 {
		t.Errorf("expected rate limit 10, got %d", cfg.Server.RateLimit)
	}
	if cfg.Catalog.Source != "postgres" {
		t.Errorf("expected postgres source, got %s", cfg.Catalog.Source)
	}
	if cfg.Catalog.DatabaseURL != "postgres://localhost/packrank_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Catalog.DatabaseURL)
	}
	if cfg.Events.URL != "nats://nats:4222" {
		t.Errorf("expected events URL, got '%s'", cfg.Events.URL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "packrank.yaml")
	data := `
catalog:
  path: /srv/packaging.tsv
  delimiter: "\t"
scoring:
  weights:
    cost: 0.7
    reusability: 0.1
charts:
  default: bubble
  bubble_top: 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.Path != "/srv/packaging.tsv" {
		t.Errorf("expected path from file, got %s", cfg.Catalog.Path)
	}
	if cfg.Catalog.Comma() != '\t' {
		t.Errorf("expected tab delimiter, got %q", cfg.Catalog.Comma())
	}
	if cfg.Scoring.Weights.Cost != 0.7 || cfg.Scoring.Weights.Reusability != 0.1 {
		t.Errorf("unexpected weights: %+v", cfg.Scoring.Weights)
	}
	if cfg.Scoring.Weights.Durability != 0.25 {
		t.Errorf("expected unset weight to keep default, got %f", cfg.Scoring.Weights.Durability)
	}
	if cfg.Charts.Default != "bubble" || cfg.Charts.BubbleTop != 5 || cfg.Charts.BarTop != 7 {
		t.Errorf("unexpected charts config: %+v", cfg.Charts)
	}
}

func TestLoadValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("PACKRANK_CATALOG_SOURCE", "postgres")
	if _, err := Load(""); err == nil {
		t.Error("expected error for postgres source without database_url")
	}

	t.Setenv("PACKRANK_CATALOG_SOURCE", "excel")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestLoadRejectsInvalidCharts(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		yaml string
	}{
		{"zero bar_top", "charts:\n  bar_top: 0\n"},
		{"negative line_top", "charts:\n  line_top: -3\n"},
		{"zero stacked_top", "charts:\n  stacked_top: 0\n"},
		{"zero bubble_top", "charts:\n  bubble_top: 0\n"},
		{"unknown default", "charts:\n  default: pie\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "packrank.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
