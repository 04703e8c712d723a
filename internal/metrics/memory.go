package metrics

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/vesaa/hostpulse/internal/env"
)

// ReadMemory reads the memory counters in one pass and attaches the
// interpretation caveat derived from the environment classification.
//
// lowMemoryBytes is the total below which a compatibility-layer host is
// flagged with a low-headroom caveat.
func ReadMemory(environment env.Info, lowMemoryBytes uint64) (*MemoryMetrics, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("reading virtual memory: %w", err)
	}
	return buildMemoryMetrics(vm.Total, vm.Free, vm.Available, environment, lowMemoryBytes), nil
}

// buildMemoryMetrics holds the derivation logic separate from the gopsutil
// read so it stays a pure function of its counters.
func buildMemoryMetrics(total, free, available uint64, environment env.Info, lowMemoryBytes uint64) *MemoryMetrics {
	// "available" is the better free figure when the kernel exposes it
	// (free excludes reclaimable caches); fall back to free otherwise.
	if available == 0 {
		available = free
	}

	var used uint64
	if total > free {
		used = total - free
	}

	m := &MemoryMetrics{
		Total:       total,
		Used:        used,
		Free:        free,
		Available:   available,
		UsedPercent: percentOf(used, total),
	}

	switch {
	case environment.Kind == env.CompatLayerV2:
		// WSL2 totals describe the utility VM, never the Windows host.
		m.Caveat = CaveatVirtualizedHost
	case environment.Kind.IsCompatLayer() && total < lowMemoryBytes:
		m.Caveat = CaveatLowHeadroom
	default:
		m.Caveat = CaveatNone
	}
	return m
}
