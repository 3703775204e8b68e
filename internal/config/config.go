// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, an optional YAML file named by
// PICKGATE_CONFIG, then PICKGATE_* environment variables.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RegistryPath is an optional YAML market registry. Empty uses the
	// built-in markets.
	RegistryPath string `koanf:"registry_path"`

	// WorkerCount bounds parallel scoring and backtest rows.
	WorkerCount int `koanf:"worker_count"`

	// LinkWindowMinutes is the kickoff tolerance for name-based linking.
	LinkWindowMinutes int `koanf:"link_window_minutes"`

	// BacktestMinMatches is the default minimum sample for a backtest.
	BacktestMinMatches int `koanf:"backtest_min_matches"`
	// BacktestAssumedOdds is the flat price used for ROI.
	BacktestAssumedOdds float64 `koanf:"backtest_assumed_odds"`

	// HistoryPath is a JSON file of historical rows for backtests.
	HistoryPath string `koanf:"history_path"`
	// ResultsDir receives saved backtest reports.
	ResultsDir string `koanf:"results_dir"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		WorkerCount:         runtime.NumCPU() * 2,
		LinkWindowMinutes:   120,
		BacktestMinMatches:  30,
		BacktestAssumedOdds: 1.90,
		ResultsDir:          "backtests",
	}
}

// LinkWindow returns the link tolerance as a duration.
func (c *Config) LinkWindow() time.Duration {
	return time.Duration(c.LinkWindowMinutes) * time.Minute
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.LinkWindowMinutes < 0:
		return fmt.Errorf("%w: link_window_minutes must not be negative", ErrInvalidConfig)
	case c.BacktestMinMatches < 1:
		return fmt.Errorf("%w: backtest_min_matches must be positive", ErrInvalidConfig)
	case c.BacktestAssumedOdds <= 1:
		return fmt.Errorf("%w: backtest_assumed_odds must exceed 1", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
