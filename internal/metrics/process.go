package metrics

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v4/process"
)

// maxCommandLen bounds the command column so one long cmdline can't blow up
// the CSV row or the report table.
const maxCommandLen = 30

// ReadTopProcesses returns the n heaviest memory consumers plus the total
// process count. Processes that disappear mid-read are skipped.
func ReadTopProcesses(n int) ([]ProcessSample, int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, 0, fmt.Errorf("listing processes: %w", err)
	}

	samples := make([]ProcessSample, 0, len(procs))
	for _, p := range procs {
		memPct, err := p.MemoryPercent()
		if err != nil {
			continue
		}
		sample := ProcessSample{
			PID:           p.Pid,
			MemoryPercent: float64(memPct),
		}
		if user, err := p.Username(); err == nil {
			sample.User = user
		}
		if cmd, err := p.Cmdline(); err == nil && cmd != "" {
			sample.Command = truncateCommand(cmd, maxCommandLen)
		} else if name, err := p.Name(); err == nil {
			sample.Command = truncateCommand(name, maxCommandLen)
		}
		samples = append(samples, sample)
	}

	return RankProcesses(samples, n), len(samples), nil
}

// RankProcesses sorts by memory percent descending with a stable pid
// tie-break and truncates the list to at most n entries.
func RankProcesses(samples []ProcessSample, n int) []ProcessSample {
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].MemoryPercent != samples[j].MemoryPercent {
			return samples[i].MemoryPercent > samples[j].MemoryPercent
		}
		return samples[i].PID < samples[j].PID
	})
	if n >= 0 && len(samples) > n {
		samples = samples[:n]
	}
	return samples
}

// truncateCommand cuts s to at most max bytes without splitting a rune.
func truncateCommand(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
