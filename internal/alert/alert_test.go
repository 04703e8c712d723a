package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesaa/hostpulse/internal/metrics"
)

func snapshotWith(memPercent float64, diskPercent float64, load1 float64, cores int) *metrics.MetricsSnapshot {
	return &metrics.MetricsSnapshot{
		CPU: &metrics.CPUMetrics{
			Cores: cores,
			Load:  &metrics.LoadTriple{Load1: load1},
		},
		Memory: &metrics.MemoryMetrics{UsedPercent: memPercent},
		Volumes: []metrics.DiskVolume{
			{Mountpoint: "/", UsedPercent: diskPercent, Primary: true},
			{Mountpoint: "/data", UsedPercent: 99.9},
		},
	}
}

func countKind(events []Event, kind Kind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestHighMemoryBoundary(t *testing.T) {
	th := DefaultThresholds()

	// Exactly at the threshold does not alert.
	events := Evaluate(snapshotWith(90.0, 0, 0, 8), th)
	assert.Equal(t, 0, countKind(events, HighMemory))

	// Just above fires exactly once.
	events = Evaluate(snapshotWith(90.01, 0, 0, 8), th)
	assert.Equal(t, 1, countKind(events, HighMemory))
}

func TestHighDiskUsesPrimaryVolumeOnly(t *testing.T) {
	th := DefaultThresholds()

	// Secondary volume at 99.9% must not fire; primary is at 50%.
	events := Evaluate(snapshotWith(0, 50, 0, 8), th)
	assert.Equal(t, 0, countKind(events, HighDisk))

	events = Evaluate(snapshotWith(0, 95, 0, 8), th)
	require.Equal(t, 1, countKind(events, HighDisk))
	for _, e := range events {
		if e.Kind == HighDisk {
			assert.Equal(t, "/", e.Subject)
		}
	}
}

func TestHighLoadRule(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name   string
		load1  float64
		cores  int
		expect int
	}{
		{"load equal to cores does not alert", 8.0, 8, 0},
		{"fractional above cores but floor equal", 8.9, 8, 0},
		{"floor strictly above cores alerts", 9.0, 8, 1},
		{"heavy overload alerts", 24.5, 8, 1},
		{"idle", 0.1, 8, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := Evaluate(snapshotWith(0, 0, tc.load1, tc.cores), th)
			assert.Equal(t, tc.expect, countKind(events, HighLoad))
		})
	}
}

func TestEvaluateUnavailableFieldsProduceNoEvents(t *testing.T) {
	// A snapshot where every reader failed: no rule has input, no rule fires.
	events := Evaluate(&metrics.MetricsSnapshot{}, DefaultThresholds())
	assert.Empty(t, events)
}

func TestEvaluateIsStateless(t *testing.T) {
	snap := snapshotWith(95, 95, 20, 4)
	th := DefaultThresholds()
	first := Evaluate(snap, th)
	second := Evaluate(snap, th)
	// No suppression or deduplication across invocations.
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
