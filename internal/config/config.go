package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Events  EventsConfig  `yaml:"events"`
	Scoring ScoringConfig `yaml:"scoring"`
	Charts  ChartsConfig  `yaml:"charts"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
	RateLimit   int `yaml:"rate_limit"`
}

type CatalogConfig struct {
	Source      string `yaml:"source"` // csv or postgres
	Path        string `yaml:"path"`
	Delimiter   string `yaml:"delimiter"`
	DatabaseURL string `yaml:"database_url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	Weights    ScoringWeights `yaml:"weights"`
	SliderStep float64        `yaml:"slider_step"`
}

type ScoringWeights struct {
	Cost                float64 `yaml:"cost"`
	Durability          float64 `yaml:"durability"`
	EnvironmentalImpact float64 `yaml:"environmental_impact"`
	Reusability         float64 `yaml:"reusability"`
}

type ChartsConfig struct {
	Default     string  `yaml:"default"`
	BarTop      int     `yaml:"bar_top"`
	StackedTop  int     `yaml:"stacked_top"`
	BubbleTop   int     `yaml:"bubble_top"`
	LineTop     int     `yaml:"line_top"`
	BubbleScale float64 `yaml:"bubble_scale"`
	Width       int     `yaml:"width"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Comma returns the first rune of the configured delimiter, or ','.
func (c *CatalogConfig) Comma() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Catalog: CatalogConfig{
			Source: "csv",
			Path:   "data/packaging_types.csv",
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Cost:                0.25,
				Durability:          0.25,
				EnvironmentalImpact: 0.25,
				Reusability:         0.25,
			},
			SliderStep: 0.1,
		},
		Charts: ChartsConfig{
			Default:     "bar",
			BarTop:      7,
			StackedTop:  7,
			BubbleTop:   10,
			LineTop:     10,
			BubbleScale: 1000,
			Width:       60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case "csv":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path required for csv source")
		}
	case "postgres":
		if c.Catalog.DatabaseURL == "" {
			return fmt.Errorf("catalog.database_url required for postgres source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Scoring.SliderStep <= 0 || c.Scoring.SliderStep > 1 {
		return fmt.Errorf("scoring.slider_step %g must be in (0,1]", c.Scoring.SliderStep)
	}
	switch c.Charts.Default {
	case "bar", "stacked", "bubble", "line":
	default:
		return fmt.Errorf("unknown charts.default %q", c.Charts.Default)
	}
	for _, top := range []struct {
		key string
		n   int
	}{
		{"bar_top", c.Charts.BarTop},
		{"stacked_top", c.Charts.StackedTop},
		{"bubble_top", c.Charts.BubbleTop},
		{"line_top", c.Charts.LineTop},
	} {
		if top.n <= 0 {
			return fmt.Errorf("charts.%s %d must be positive", top.key, top.n)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PACKRANK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PACKRANK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PACKRANK_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("PACKRANK_CATALOG_SOURCE"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("PACKRANK_DATA_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("PACKRANK_DATABASE_URL"); v != "" {
		cfg.Catalog.DatabaseURL = v
	}
	if v := os.Getenv("PACKRANK_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("PACKRANK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
