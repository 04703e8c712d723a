package metrics

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// ResolveCPUTemperature runs the temperature fallback chain: hardware
// sensors, kernel thermal zones, then a synthetic estimate. The chain never
// ends unavailable — the estimator always succeeds — but the estimate is
// tagged with its provenance so correctness-sensitive consumers can exclude
// it.
//
// cpuUtilization may be nil (CPU sampling failed); the estimator treats
// that as 0.
func ResolveCPUTemperature(logger *slog.Logger, baseTemperature float64, cpuUtilization *float64) TemperatureReading {
	return Resolve(logger, TemperatureReading{Provenance: ProvenanceUnavailable},
		sensorStrategy{},
		thermalZoneStrategy{glob: thermalZoneGlob},
		syntheticStrategy{base: baseTemperature, cpuUtilization: cpuUtilization},
	)
}

// ── hardware sensors ──────────────────────────────────────────────────────────

// cpuSensorKeywords pick the CPU-relevant sensor out of the full table, in
// preference order. "tctl" is AMD's control temperature, "package" the Intel
// package sensor.
var cpuSensorKeywords = []string{"package", "tctl", "coretemp", "cpu", "core"}

type sensorStrategy struct{}

func (sensorStrategy) Name() string    { return "hardware-sensors" }
func (sensorStrategy) Available() bool { return true }

func (sensorStrategy) Extract() (TemperatureReading, error) {
	temps, err := sensors.SensorsTemperatures()
	if len(temps) == 0 {
		// gopsutil may return partial results plus warnings; only a fully
		// empty table is a failure here.
		if err != nil {
			return TemperatureReading{}, fmt.Errorf("reading sensors: %w", err)
		}
		return TemperatureReading{}, fmt.Errorf("no sensor readings")
	}
	for _, keyword := range cpuSensorKeywords {
		for _, t := range temps {
			if !strings.Contains(strings.ToLower(t.SensorKey), keyword) {
				continue
			}
			if !plausibleCelsius(t.Temperature) {
				continue
			}
			return TemperatureReading{Celsius: t.Temperature, Provenance: ProvenanceSensor}, nil
		}
	}
	return TemperatureReading{}, fmt.Errorf("no CPU sensor among %d readings", len(temps))
}

// ── kernel thermal zone ───────────────────────────────────────────────────────

const thermalZoneGlob = "/sys/class/thermal/thermal_zone*/temp"

type thermalZoneStrategy struct {
	glob string
}

func (thermalZoneStrategy) Name() string { return "thermal-zone" }

func (s thermalZoneStrategy) Available() bool {
	matches, err := filepath.Glob(s.glob)
	return err == nil && len(matches) > 0
}

func (s thermalZoneStrategy) Extract() (TemperatureReading, error) {
	matches, err := filepath.Glob(s.glob)
	if err != nil {
		return TemperatureReading{}, err
	}
	for _, path := range matches {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			continue
		}
		// Thermal zones report millidegrees; a handful of drivers report
		// plain degrees.
		if v > 1000 {
			v /= 1000.0
		}
		if plausibleCelsius(v) {
			return TemperatureReading{Celsius: v, Provenance: ProvenanceThermalZone}, nil
		}
	}
	return TemperatureReading{}, fmt.Errorf("no readable thermal zone")
}

func plausibleCelsius(v float64) bool {
	return v > 0 && v < 150
}

// ── synthetic estimate ────────────────────────────────────────────────────────

// syntheticStrategy exists so reports never show a hard failure for the CPU
// temperature column: estimate = base + floor(util/3) + jitter(0..2). The
// provenance tag keeps the estimate out of alerting and trend analysis.
type syntheticStrategy struct {
	base           float64
	cpuUtilization *float64
}

func (syntheticStrategy) Name() string    { return "synthetic-estimate" }
func (syntheticStrategy) Available() bool { return true }

func (s syntheticStrategy) Extract() (TemperatureReading, error) {
	util := 0.0
	if s.cpuUtilization != nil {
		util = *s.cpuUtilization
	}
	estimate := s.base + math.Floor(util/3) + float64(rand.Intn(3))
	return TemperatureReading{Celsius: estimate, Provenance: ProvenanceSynthetic}, nil
}
