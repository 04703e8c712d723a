package metrics

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
)

// CounterSample is one capture of the aggregate CPU time accumulators. The
// values are monotonically non-decreasing; two samples of the same kind taken
// at different times are the only valid input to a delta computation.
type CounterSample struct {
	At      time.Time
	User    float64
	Nice    float64
	System  float64
	Idle    float64
	Iowait  float64
	Irq     float64
	Softirq float64
	Steal   float64
}

// Total is the sum of all accumulators.
func (s CounterSample) Total() float64 {
	return s.User + s.Nice + s.System + s.Idle + s.Iowait + s.Irq + s.Softirq + s.Steal
}

// IdleTotal is the time the CPU spent doing nothing, iowait included.
func (s CounterSample) IdleTotal() float64 {
	return s.Idle + s.Iowait
}

// UtilizationBetween computes CPU utilization percent from two captures.
// A non-positive total delta (clock skew, identical captures) yields 0, and
// an idle delta exceeding the total delta clamps to 0 rather than going
// negative. The result is always within [0,100].
func UtilizationBetween(t0, t1 CounterSample) float64 {
	totalDelta := t1.Total() - t0.Total()
	if totalDelta <= 0 {
		return 0
	}
	idleDelta := t1.IdleTotal() - t0.IdleTotal()
	return clampPercent((totalDelta - idleDelta) / totalDelta * 100)
}

// DeltaSampler measures CPU utilization from two counter captures separated
// by a fixed interval. The wait between captures is the engine's only
// intentional blocking point and bounds the minimum cost of a cycle.
type DeltaSampler struct {
	Interval time.Duration
}

func captureCounterSample() (CounterSample, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return CounterSample{}, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(times) == 0 {
		return CounterSample{}, fmt.Errorf("reading cpu times: empty result")
	}
	t := times[0]
	return CounterSample{
		At:      time.Now(),
		User:    t.User,
		Nice:    t.Nice,
		System:  t.System,
		Idle:    t.Idle,
		Iowait:  t.Iowait,
		Irq:     t.Irq,
		Softirq: t.Softirq,
		Steal:   t.Steal,
	}, nil
}

// Measure blocks for the configured interval and returns utilization percent.
func (d DeltaSampler) Measure() (float64, error) {
	interval := d.Interval
	if interval <= 0 {
		interval = time.Second
	}
	t0, err := captureCounterSample()
	if err != nil {
		return 0, err
	}
	time.Sleep(interval)
	t1, err := captureCounterSample()
	if err != nil {
		return 0, err
	}
	return UtilizationBetween(t0, t1), nil
}

// ReadCPU samples utilization and reads the static CPU identity plus the
// instantaneous load triple. Load averages are read independently of the
// delta sample and may legitimately exceed the core count.
func ReadCPU(sampler DeltaSampler) (*CPUMetrics, error) {
	usage, err := sampler.Measure()
	if err != nil {
		return nil, err
	}

	m := &CPUMetrics{UsagePercent: usage, Cores: 1}

	if cores, err := cpu.Counts(true); err == nil && cores >= 1 {
		m.Cores = cores
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		m.Model = infos[0].ModelName
	}
	if avg, err := load.Avg(); err == nil {
		m.Load = &LoadTriple{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	}
	return m, nil
}
