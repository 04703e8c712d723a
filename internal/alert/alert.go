// Package alert evaluates threshold rules over a completed snapshot. The
// evaluation is a pure function: no suppression, no deduplication, no state
// between invocations.
package alert

import (
	"fmt"
	"math"

	"github.com/vesaa/hostpulse/internal/metrics"
)

// Kind identifies a rule.
type Kind string

const (
	HighMemory Kind = "HighMemory"
	HighDisk   Kind = "HighDisk"
	HighLoad   Kind = "HighLoad"
)

// Event is one fired rule.
type Event struct {
	Kind      Kind
	Observed  float64
	Threshold float64
	// Subject names the volume or resource the rule fired on, where
	// applicable.
	Subject string
}

func (e Event) String() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s on %s: %.2f (threshold %.2f)", e.Kind, e.Subject, e.Observed, e.Threshold)
	}
	return fmt.Sprintf("%s: %.2f (threshold %.2f)", e.Kind, e.Observed, e.Threshold)
}

// Thresholds holds the rule constants. All comparisons are strict: exactly
// at the threshold does not alert.
type Thresholds struct {
	MemoryPercent float64
	DiskPercent   float64
}

// DefaultThresholds mirrors the configured defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{MemoryPercent: 90, DiskPercent: 90}
}

// Evaluate applies every rule independently against the snapshot. Unavailable
// fields simply produce no event for their rule. Synthetic temperature
// readings are never an alert input.
func Evaluate(snap *metrics.MetricsSnapshot, t Thresholds) []Event {
	var events []Event

	if m := snap.Memory; m != nil && m.UsedPercent > t.MemoryPercent {
		events = append(events, Event{
			Kind:      HighMemory,
			Observed:  m.UsedPercent,
			Threshold: t.MemoryPercent,
		})
	}

	if v := snap.PrimaryVolume(); v != nil && v.UsedPercent > t.DiskPercent {
		events = append(events, Event{
			Kind:      HighDisk,
			Observed:  v.UsedPercent,
			Threshold: t.DiskPercent,
			Subject:   v.Mountpoint,
		})
	}

	// floor(load1) must strictly exceed the core count; a load exactly equal
	// to the cores is full, not overloaded.
	if c := snap.CPU; c != nil && c.Load != nil && math.Floor(c.Load.Load1) > float64(c.Cores) {
		events = append(events, Event{
			Kind:      HighLoad,
			Observed:  c.Load.Load1,
			Threshold: float64(c.Cores),
		})
	}

	return events
}
