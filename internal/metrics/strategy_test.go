package metrics

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStrategy struct {
	name      string
	available bool
	result    string
	err       error
	calls     *int
}

func (f fakeStrategy) Name() string    { return f.name }
func (f fakeStrategy) Available() bool { return f.available }
func (f fakeStrategy) Extract() (string, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.result, f.err
}

func TestResolveReturnsFirstSuccess(t *testing.T) {
	got := Resolve(discardLogger(), "unavailable",
		fakeStrategy{name: "a", available: false, result: "a"},
		fakeStrategy{name: "b", available: true, result: "b"},
		fakeStrategy{name: "c", available: true, result: "c"},
	)
	assert.Equal(t, "b", got)
}

func TestResolveSkipsFailures(t *testing.T) {
	got := Resolve(discardLogger(), "unavailable",
		fakeStrategy{name: "a", available: true, err: fmt.Errorf("broken")},
		fakeStrategy{name: "b", available: true, result: "b"},
	)
	assert.Equal(t, "b", got)
}

func TestResolveAllFailYieldsUnavailable(t *testing.T) {
	got := Resolve(discardLogger(), "unavailable",
		fakeStrategy{name: "a", available: false},
		fakeStrategy{name: "b", available: true, err: fmt.Errorf("broken")},
	)
	assert.Equal(t, "unavailable", got)
}

func TestResolveNeverRetries(t *testing.T) {
	calls := 0
	Resolve(discardLogger(), "unavailable",
		fakeStrategy{name: "a", available: true, err: fmt.Errorf("broken"), calls: &calls},
	)
	assert.Equal(t, 1, calls)
}

// ── temperature chain ─────────────────────────────────────────────────────────

type failingTempStrategy struct{ name string }

func (f failingTempStrategy) Name() string    { return f.name }
func (failingTempStrategy) Available() bool   { return false }
func (failingTempStrategy) Extract() (TemperatureReading, error) {
	return TemperatureReading{}, fmt.Errorf("unavailable")
}

func TestTemperatureChainFallsBackToSynthetic(t *testing.T) {
	util := 30.0
	got := Resolve(discardLogger(), TemperatureReading{Provenance: ProvenanceUnavailable},
		failingTempStrategy{name: "sensors"},
		failingTempStrategy{name: "thermal-zone"},
		syntheticStrategy{base: 45, cpuUtilization: &util},
	)
	assert.Equal(t, ProvenanceSynthetic, got.Provenance)
	// base 45 + floor(30/3)=10 + jitter 0..2
	assert.GreaterOrEqual(t, got.Celsius, 55.0)
	assert.LessOrEqual(t, got.Celsius, 57.0)
}

func TestSyntheticEstimatorHandlesAbsentUtilization(t *testing.T) {
	// CPU sampling failed entirely: utilization is absent, treated as 0.
	got, err := syntheticStrategy{base: 45, cpuUtilization: nil}.Extract()
	require.NoError(t, err)
	assert.Equal(t, ProvenanceSynthetic, got.Provenance)
	assert.GreaterOrEqual(t, got.Celsius, 45.0)
	assert.LessOrEqual(t, got.Celsius, 47.0)
}

func TestProvenanceReal(t *testing.T) {
	assert.True(t, ProvenanceSensor.Real())
	assert.True(t, ProvenanceThermalZone.Real())
	assert.False(t, ProvenanceSynthetic.Real())
	assert.False(t, ProvenanceUnavailable.Real())
}
