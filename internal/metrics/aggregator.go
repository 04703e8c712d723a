package metrics

import (
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/vesaa/hostpulse/internal/env"
)

// Aggregator sequences all readers into one immutable snapshot. Collection
// is strictly sequential: the classifier runs first because the memory
// caveat depends on it, and the CPU delta sample supplies the utilization
// the synthetic temperature estimator needs.
type Aggregator struct {
	Logger *slog.Logger

	SampleInterval  time.Duration
	TopProcesses    int
	LowMemoryBytes  uint64
	BaseTemperature float64
	ToolTimeout     time.Duration
}

// Collect runs one full cycle. Partial failures degrade that field to
// unavailable and are logged at warning level; Collect itself never fails.
func (a *Aggregator) Collect() *MetricsSnapshot {
	logger := a.Logger

	environment := env.Classify()
	if environment.Kind == env.Unknown {
		logger.Warn("environment classification unavailable")
	} else {
		logger.Info("environment classified", "kind", environment.Kind, "kernel", environment.KernelRelease)
	}

	snap := &MetricsSnapshot{
		CapturedAt:  time.Now(),
		Environment: environment,
	}

	if cpuMetrics, err := ReadCPU(DeltaSampler{Interval: a.SampleInterval}); err != nil {
		logger.Warn("cpu sampling failed", "error", err)
	} else {
		snap.CPU = cpuMetrics
	}

	if memory, err := ReadMemory(environment, a.LowMemoryBytes); err != nil {
		logger.Warn("memory read failed", "error", err)
	} else {
		snap.Memory = memory
		if memory.Caveat != CaveatNone {
			logger.Warn("memory reading caveat", "caveat", memory.Caveat)
		}
	}

	if volumes, err := ReadVolumes(environment); err != nil {
		logger.Warn("disk enumeration failed", "error", err)
	} else {
		snap.Volumes = volumes
	}

	if ifaces, err := ReadNetwork(); err != nil {
		logger.Warn("network read failed", "error", err)
	} else {
		snap.Network = ifaces
	}

	snap.GPU = ResolveGPU(logger, a.ToolTimeout)

	var cpuUtil *float64
	if snap.CPU != nil {
		cpuUtil = &snap.CPU.UsagePercent
	}
	snap.CPUTemperature = ResolveCPUTemperature(logger, a.BaseTemperature, cpuUtil)
	if snap.CPUTemperature.Provenance == ProvenanceSynthetic {
		logger.Warn("no real temperature source, using synthetic estimate")
	}

	snap.DiskHealth = ResolveDiskHealth(logger, snap.PrimaryVolume(), a.ToolTimeout)
	if snap.DiskHealth.Status == HealthNotChecked {
		logger.Warn("disk health not checked", "reason", snap.DiskHealth.Reason)
	}

	if procs, count, err := ReadTopProcesses(a.TopProcesses); err != nil {
		logger.Warn("process listing failed", "error", err)
	} else {
		snap.Processes = procs
		snap.ProcessCount = count
	}

	if info, err := host.Info(); err != nil {
		logger.Warn("host info read failed", "error", err)
	} else {
		snap.Host = &HostMetrics{
			Hostname:      info.Hostname,
			KernelVersion: info.KernelVersion,
			UptimeSeconds: info.Uptime,
		}
	}

	return snap
}
