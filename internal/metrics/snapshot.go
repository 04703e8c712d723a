// Package metrics implements the hostpulse collection engine: per-metric
// source selection, derived-value computation, ordered fallback chains and
// snapshot aggregation. It uses gopsutil for cross-platform system telemetry
// and external tools (nvidia-smi, smartctl) behind bounded timeouts.
package metrics

import (
	"time"

	"github.com/vesaa/hostpulse/internal/env"
)

// MemoryCaveat annotates how a memory reading should be interpreted.
type MemoryCaveat int

const (
	// CaveatNone means the reading is host-true.
	CaveatNone MemoryCaveat = iota
	// CaveatVirtualizedHost: the WSL2 utility VM reports its own memory,
	// never the Windows machine's.
	CaveatVirtualizedHost
	// CaveatLowHeadroom: a compatibility-layer host with an unusually small
	// total; the VM is likely running with default sizing.
	CaveatLowHeadroom
)

func (c MemoryCaveat) String() string {
	switch c {
	case CaveatVirtualizedHost:
		return "virtualized memory (not host-true)"
	case CaveatLowHeadroom:
		return "low memory headroom"
	default:
		return ""
	}
}

// CPUMetrics holds the sampled CPU figures.
type CPUMetrics struct {
	Model        string
	Cores        int // logical cores, >= 1
	UsagePercent float64
	// Load is nil when load averages are unavailable (e.g. non-Unix).
	// Values may exceed Cores under overload; that is valid, not an error.
	Load *LoadTriple
}

// LoadTriple is the instantaneous 1/5/15-minute load average set, read
// independently of the delta sample.
type LoadTriple struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// MemoryMetrics holds one memory reading. Used is total minus free, refined
// by the kernel's "available" counter when present.
type MemoryMetrics struct {
	Total       uint64
	Used        uint64
	Free        uint64
	Available   uint64
	UsedPercent float64
	Caveat      MemoryCaveat
}

// DiskVolume is one real (non-pseudo) mounted filesystem.
type DiskVolume struct {
	Device      string
	Mountpoint  string
	Fstype      string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
	// Primary marks the single volume representing "the" disk in summary
	// and alerting contexts.
	Primary bool
}

// NetworkInterface holds cumulative counters for one non-loopback interface.
type NetworkInterface struct {
	Name        string
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
}

// GPUMetrics holds GPU figures. When Detected is false every other field is
// zero-valued and must not be read; zero is never used as a placeholder for
// a detected GPU's missing field — those stay behind pointers.
type GPUMetrics struct {
	Detected         bool
	Vendor           string
	Name             string
	MemoryUsedBytes  uint64
	MemoryTotalBytes uint64
	UsagePercent     float64
	// Temperature is nil when the vendor tool did not report one.
	Temperature *float64
}

// TemperatureProvenance records where a temperature value came from. It is
// carried with every reading so a synthetic estimate is never mistaken for
// measured data.
type TemperatureProvenance int

const (
	// ProvenanceUnavailable: no value at all.
	ProvenanceUnavailable TemperatureProvenance = iota
	// ProvenanceSensor: a hardware sensor reading.
	ProvenanceSensor
	// ProvenanceThermalZone: a kernel thermal-zone file.
	ProvenanceThermalZone
	// ProvenanceSynthetic: estimated from CPU utilization. Alerting and
	// trend analysis must exclude these.
	ProvenanceSynthetic
)

func (p TemperatureProvenance) String() string {
	switch p {
	case ProvenanceSensor:
		return "sensor"
	case ProvenanceThermalZone:
		return "thermal-zone"
	case ProvenanceSynthetic:
		return "synthetic"
	default:
		return "unavailable"
	}
}

// Real reports whether the value was measured rather than estimated.
func (p TemperatureProvenance) Real() bool {
	return p == ProvenanceSensor || p == ProvenanceThermalZone
}

// TemperatureReading is a degrees-Celsius value plus its provenance.
// Celsius is meaningless when Provenance is ProvenanceUnavailable.
type TemperatureReading struct {
	Celsius    float64
	Provenance TemperatureProvenance
}

// HealthStatus is the SMART overall-health verdict.
type HealthStatus int

const (
	// HealthNotChecked: the query never ran; Reason says why.
	HealthNotChecked HealthStatus = iota
	// HealthPassed: the disk reports SMART overall-health PASSED.
	HealthPassed
	// HealthFailed: the disk reports a failing verdict.
	HealthFailed
	// HealthUnknown: the tool ran but the verdict could not be parsed.
	HealthUnknown
)

func (s HealthStatus) String() string {
	switch s {
	case HealthPassed:
		return "PASSED"
	case HealthFailed:
		return "FAILED"
	case HealthUnknown:
		return "UNKNOWN"
	default:
		return "NOT CHECKED"
	}
}

// Health-not-checked reasons. PermissionDenied is deliberately distinct from
// a missing tool: the operator fixes them differently.
const (
	ReasonPermissionDenied = "permission denied (requires root)"
	ReasonToolNotFound     = "smartctl not found"
	ReasonNoDevice         = "no device for primary volume"
)

// DiskHealth is the health verdict for the primary volume's device.
type DiskHealth struct {
	Available bool
	Status    HealthStatus
	Device    string
	// Reason is set when Status is HealthNotChecked.
	Reason string
}

// ProcessSample is one row of the top-memory process list.
type ProcessSample struct {
	PID           int32
	User          string
	MemoryPercent float64
	// Command is truncated to at most 30 bytes on a rune boundary.
	Command string
}

// HostMetrics is static host identity captured with the snapshot.
type HostMetrics struct {
	Hostname      string
	KernelVersion string
	UptimeSeconds uint64
}

// UptimeDays converts uptime to fractional days.
func (h HostMetrics) UptimeDays() float64 {
	return float64(h.UptimeSeconds) / 86400.0
}

// MetricsSnapshot is the aggregate root handed to reporters. It is assembled
// once by the aggregator and never mutated afterwards; a nil pointer field
// means that reader failed and the metric is unavailable.
type MetricsSnapshot struct {
	CapturedAt  time.Time
	Environment env.Info

	CPU     *CPUMetrics
	Memory  *MemoryMetrics
	Volumes []DiskVolume
	Network []NetworkInterface

	GPU            GPUMetrics
	CPUTemperature TemperatureReading
	DiskHealth     DiskHealth

	Processes    []ProcessSample
	ProcessCount int

	Host *HostMetrics
}

// PrimaryVolume returns the volume flagged primary, or nil when disk
// enumeration failed entirely.
func (s *MetricsSnapshot) PrimaryVolume() *DiskVolume {
	for i := range s.Volumes {
		if s.Volumes[i].Primary {
			return &s.Volumes[i]
		}
	}
	return nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func percentOf(value, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return clampPercent(float64(value) / float64(total) * 100)
}
