package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vesaa/hostpulse/internal/metrics"
)

// HistoryFileName is the append-only CSV trail inside the data directory.
const HistoryFileName = "history.csv"

// Unavailable is the literal token written for any field whose source
// failed. A numeric zero is a legitimate reading and never stands in for it.
const Unavailable = "N/A"

var csvHeader = []string{
	"timestamp",
	"cpu_usage_percent",
	"mem_total_gb",
	"mem_used_gb",
	"mem_free_gb",
	"mem_used_percent",
	"disk_usage",
	"gpu_usage_percent",
	"gpu_mem_used_mb",
	"cpu_temp_c",
	"gpu_temp_c",
	"process_count",
	"load_1m",
	"uptime_days",
}

// AppendHistory appends one row for the snapshot, writing the header first
// when the file does not exist yet.
func AppendHistory(dataDir string, snap *metrics.MetricsSnapshot) error {
	path := filepath.Join(dataDir, HistoryFileName)
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(HistoryRow(snap)); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// HistoryRow renders the snapshot into the CSV schema. Every numeric field
// is formatted to two decimals; unavailable fields become the N/A token.
func HistoryRow(snap *metrics.MetricsSnapshot) []string {
	row := make([]string, 0, len(csvHeader))
	row = append(row, snap.CapturedAt.Format("2006-01-02 15:04:05"))

	if c := snap.CPU; c != nil {
		row = append(row, f2(c.UsagePercent))
	} else {
		row = append(row, Unavailable)
	}

	if m := snap.Memory; m != nil {
		row = append(row, f2(toGB(m.Total)), f2(toGB(m.Used)), f2(toGB(m.Free)), f2(m.UsedPercent))
	} else {
		row = append(row, Unavailable, Unavailable, Unavailable, Unavailable)
	}

	row = append(row, diskSummary(snap.Volumes))

	if g := snap.GPU; g.Detected {
		row = append(row, f2(g.UsagePercent), f2(float64(g.MemoryUsedBytes)/(1024*1024)))
	} else {
		row = append(row, Unavailable, Unavailable)
	}

	if t := snap.CPUTemperature; t.Provenance != metrics.ProvenanceUnavailable {
		row = append(row, f2(t.Celsius))
	} else {
		row = append(row, Unavailable)
	}

	if g := snap.GPU; g.Detected && g.Temperature != nil {
		row = append(row, f2(*g.Temperature))
	} else {
		row = append(row, Unavailable)
	}

	if snap.ProcessCount > 0 {
		row = append(row, fmt.Sprintf("%d", snap.ProcessCount))
	} else {
		row = append(row, Unavailable)
	}

	if c := snap.CPU; c != nil && c.Load != nil {
		row = append(row, f2(c.Load.Load1))
	} else {
		row = append(row, Unavailable)
	}

	if h := snap.Host; h != nil {
		row = append(row, f2(h.UptimeDays()))
	} else {
		row = append(row, Unavailable)
	}

	return row
}

// diskSummary joins the volumes as "mount:percent" pairs, e.g.
// "/:42.10% /mnt/c:73.00%".
func diskSummary(volumes []metrics.DiskVolume) string {
	if len(volumes) == 0 {
		return Unavailable
	}
	pairs := make([]string, 0, len(volumes))
	for _, v := range volumes {
		pairs = append(pairs, fmt.Sprintf("%s:%s%%", v.Mountpoint, f2(v.UsedPercent)))
	}
	return strings.Join(pairs, " ")
}

func f2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func toGB(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}
