package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "logs", cfg.LogsDir)
	assert.Equal(t, "reports", cfg.ReportsDir)

	assert.Equal(t, time.Second, cfg.SampleInterval())
	assert.Equal(t, 5*time.Second, cfg.ToolTimeout())
	assert.Equal(t, 5, cfg.TopProcesses)

	assert.Equal(t, uint64(8)<<30, cfg.LowMemoryBytes)
	assert.Equal(t, 90.0, cfg.MemoryAlertPercent)
	assert.Equal(t, 90.0, cfg.DiskAlertPercent)
	assert.Equal(t, 45.0, cfg.BaseTemperature)

	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PULSE_TOP_PROCESSES", "3")
	t.Setenv("PULSE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.TopProcesses)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadSanitizesNonsenseValues(t *testing.T) {
	t.Setenv("PULSE_SAMPLE_INTERVAL_SECONDS", "0")
	t.Setenv("PULSE_TOP_PROCESSES", "-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.SampleIntervalSeconds)
	assert.Equal(t, 5, cfg.TopProcesses)
}
