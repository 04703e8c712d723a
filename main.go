// hostpulse — point-in-time host health snapshots with a CSV trail and an HTML report.
// Author: vesaa | License: MIT | https://github.com/vesaa/hostpulse
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vesaa/hostpulse/internal/alert"
	"github.com/vesaa/hostpulse/internal/config"
	"github.com/vesaa/hostpulse/internal/logging"
	"github.com/vesaa/hostpulse/internal/metrics"
	"github.com/vesaa/hostpulse/internal/report"
)

const version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "hostpulse",
		Short: "hostpulse — one trustworthy snapshot of host health",
		Long: `hostpulse collects a point-in-time inventory of host health (CPU, memory,
disk, network, GPU, temperature, SMART health, top processes), appends it to
an append-only CSV trail and writes a human-readable HTML report.

Run it manually or on a timer; one invocation is one collection cycle.`,
		SilenceUsage: true,
		// Bare invocation runs one collection cycle.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect()
		},
	}

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection cycle (collect, alert, append CSV, write report)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print hostpulse version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hostpulse %s\n", version)
		},
	}

	root.AddCommand(collectCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCollect() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Directory setup is the one fatal failure in the pipeline: every later
	// step degrades gracefully, but without the directories there is nowhere
	// to write.
	dirs := report.Dirs{Data: cfg.DataDir, Logs: cfg.LogsDir, Reports: cfg.ReportsDir}
	if err := dirs.Setup(); err != nil {
		return fmt.Errorf("setting up output directories: %w", err)
	}

	logger, closer, err := logging.New(cfg.LogsDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	logger.Info("collection cycle starting", "version", version)

	agg := &metrics.Aggregator{
		Logger:          logger,
		SampleInterval:  cfg.SampleInterval(),
		TopProcesses:    cfg.TopProcesses,
		LowMemoryBytes:  cfg.LowMemoryBytes,
		BaseTemperature: cfg.BaseTemperature,
		ToolTimeout:     cfg.ToolTimeout(),
	}
	snap := agg.Collect()

	alerts := alert.Evaluate(snap, alert.Thresholds{
		MemoryPercent: cfg.MemoryAlertPercent,
		DiskPercent:   cfg.DiskAlertPercent,
	})
	for _, ev := range alerts {
		logger.Warn("alert", "event", ev.String())
	}

	if err := report.AppendHistory(cfg.DataDir, snap); err != nil {
		logger.Warn("csv append failed", "error", err)
	}

	path, err := report.WriteHTML(cfg.ReportsDir, snap, alerts)
	if err != nil {
		logger.Warn("html report failed", "error", err)
	} else {
		logger.Info("report written", "path", path)
	}

	logger.Info("collection cycle finished", "alerts", len(alerts))
	return nil
}
