// Package config provides dynamic configuration management for hostpulse.
// It uses Viper to load settings from files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for hostpulse.
type Config struct {
	// ── Output directories ───────────────────────────────────────────────────
	// Created idempotently before collection; failure to create any of them
	// aborts the run.
	DataDir    string `mapstructure:"data_dir"`
	LogsDir    string `mapstructure:"logs_dir"`
	ReportsDir string `mapstructure:"reports_dir"`

	// ── Sampling ─────────────────────────────────────────────────────────────
	// SampleIntervalSeconds is the wait between the two CPU counter captures.
	// It bounds the minimum wall-clock cost of a full collection cycle.
	SampleIntervalSeconds int `mapstructure:"sample_interval_seconds"`
	// TopProcesses is the size of the top-memory process list.
	TopProcesses int `mapstructure:"top_processes"`
	// ToolTimeoutSeconds bounds every external tool invocation
	// (nvidia-smi, smartctl); expiry degrades the metric to unavailable.
	ToolTimeoutSeconds int `mapstructure:"tool_timeout_seconds"`

	// ── Thresholds ───────────────────────────────────────────────────────────
	// LowMemoryBytes: below this total, a compatibility-layer host gets a
	// low-headroom caveat. The 8 GiB default comes from field experience with
	// WSL default VM sizing, not from any formal rule.
	LowMemoryBytes     uint64  `mapstructure:"low_memory_bytes"`
	MemoryAlertPercent float64 `mapstructure:"memory_alert_percent"`
	DiskAlertPercent   float64 `mapstructure:"disk_alert_percent"`

	// ── Synthetic temperature estimator ──────────────────────────────────────
	// BaseTemperature seeds the estimate used when no real sensor exists.
	BaseTemperature float64 `mapstructure:"base_temperature"`

	// ── Logging ──────────────────────────────────────────────────────────────
	LogLevel string `mapstructure:"log_level"` // debug | info | warn | error
}

// SampleInterval returns the CPU sampling interval as a time.Duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalSeconds) * time.Second
}

// ToolTimeout returns the external-tool timeout as a time.Duration.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSeconds) * time.Second
}

// Load reads config from file (./config.yaml or ~/.hostpulse/config.yaml)
// and falls back to smart defaults. Environment variables with prefix PULSE_
// override file values.
func Load() (*Config, error) {
	v := viper.New()

	// --- Smart Defaults ---
	v.SetDefault("data_dir", "data")
	v.SetDefault("logs_dir", "logs")
	v.SetDefault("reports_dir", "reports")

	v.SetDefault("sample_interval_seconds", 1)
	v.SetDefault("top_processes", 5)
	v.SetDefault("tool_timeout_seconds", 5)

	v.SetDefault("low_memory_bytes", uint64(8)<<30) // 8 GiB
	v.SetDefault("memory_alert_percent", 90.0)
	v.SetDefault("disk_alert_percent", 90.0)

	v.SetDefault("base_temperature", 45.0)

	v.SetDefault("log_level", "info")

	// --- Config file ---
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.hostpulse")
	if err := v.ReadInConfig(); err != nil {
		// config file is optional; ignore "not found" errors
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// --- Environment Variables ---
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.SampleIntervalSeconds < 1 {
		cfg.SampleIntervalSeconds = 1
	}
	if cfg.TopProcesses < 1 {
		cfg.TopProcesses = 5
	}
	return &cfg, nil
}
