package metrics

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Vendor tags carried on detected GPUs.
const (
	VendorNvidia = "nvidia"
	VendorAMD    = "amd"
)

// ResolveGPU runs the GPU fallback chain: nvidia-smi command-line query,
// then AMD sysfs counters. When both fail the result has Detected=false and
// no placeholder values.
func ResolveGPU(logger *slog.Logger, toolTimeout time.Duration) GPUMetrics {
	return Resolve(logger, GPUMetrics{},
		nvidiaSMIStrategy{timeout: toolTimeout},
		amdSysfsStrategy{root: amdSysfsRoot},
	)
}

// ── NVIDIA ────────────────────────────────────────────────────────────────────

type nvidiaSMIStrategy struct {
	timeout time.Duration
}

func (nvidiaSMIStrategy) Name() string    { return "nvidia-smi" }
func (nvidiaSMIStrategy) Available() bool { return toolInPath("nvidia-smi") }

func (s nvidiaSMIStrategy) Extract() (GPUMetrics, error) {
	out, err := runTool(s.timeout, "nvidia-smi",
		"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
		"--format=csv,noheader,nounits")
	if err != nil {
		return GPUMetrics{}, err
	}
	return parseNvidiaCSV(string(out))
}

// parseNvidiaCSV reads the first GPU row of nvidia-smi query output. A
// successful parse always yields Detected=true with the vendor tag set;
// a row missing required fields is a parse failure, never a partial result.
func parseNvidiaCSV(raw string) (GPUMetrics, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return GPUMetrics{}, fmt.Errorf("parsing nvidia-smi output: %w", err)
	}
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(row[0])
		util, utilErr := parseQueryFloat(row[1])
		memUsed, usedErr := parseQueryFloat(row[2])
		memTotal, totalErr := parseQueryFloat(row[3])
		if name == "" || utilErr != nil || usedErr != nil || totalErr != nil {
			continue
		}
		m := GPUMetrics{
			Detected:         true,
			Vendor:           VendorNvidia,
			Name:             name,
			UsagePercent:     clampPercent(util),
			MemoryUsedBytes:  mibToBytes(memUsed),
			MemoryTotalBytes: mibToBytes(memTotal),
		}
		if len(row) >= 5 {
			if temp, err := parseQueryFloat(row[4]); err == nil {
				m.Temperature = &temp
			}
		}
		return m, nil
	}
	return GPUMetrics{}, fmt.Errorf("nvidia-smi output had no usable GPU row")
}

// parseQueryFloat handles nvidia-smi's "N/A" and "[Not Supported]" markers.
func parseQueryFloat(raw string) (float64, error) {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "n/a", "[not supported]", "not supported":
		return 0, fmt.Errorf("field not supported")
	}
	return strconv.ParseFloat(v, 64)
}

func mibToBytes(mib float64) uint64 {
	if mib < 0 {
		return 0
	}
	return uint64(mib) * 1024 * 1024
}

// ── AMD ───────────────────────────────────────────────────────────────────────

const amdSysfsRoot = "/sys/class/drm/card0/device"

// amdVendorID is the PCI vendor ID sysfs reports for AMD/ATI.
const amdVendorID = "0x1002"

type amdSysfsStrategy struct {
	root string
}

func (amdSysfsStrategy) Name() string { return "amd-sysfs" }

func (s amdSysfsStrategy) Available() bool {
	vendor, err := os.ReadFile(filepath.Join(s.root, "vendor"))
	return err == nil && strings.TrimSpace(string(vendor)) == amdVendorID
}

func (s amdSysfsStrategy) Extract() (GPUMetrics, error) {
	busy, err := readSysfsUint(filepath.Join(s.root, "gpu_busy_percent"))
	if err != nil {
		return GPUMetrics{}, err
	}
	vramUsed, err := readSysfsUint(filepath.Join(s.root, "mem_info_vram_used"))
	if err != nil {
		return GPUMetrics{}, err
	}
	vramTotal, err := readSysfsUint(filepath.Join(s.root, "mem_info_vram_total"))
	if err != nil {
		return GPUMetrics{}, err
	}

	m := GPUMetrics{
		Detected:         true,
		Vendor:           VendorAMD,
		Name:             amdProductName(s.root),
		UsagePercent:     clampPercent(float64(busy)),
		MemoryUsedBytes:  vramUsed,
		MemoryTotalBytes: vramTotal,
	}
	if temp, ok := amdHwmonTemperature(s.root); ok {
		m.Temperature = &temp
	}
	return m, nil
}

func amdProductName(root string) string {
	// product_name exists on newer amdgpu kernels only.
	if b, err := os.ReadFile(filepath.Join(root, "product_name")); err == nil {
		if name := strings.TrimSpace(string(b)); name != "" {
			return name
		}
	}
	return "AMD GPU"
}

// amdHwmonTemperature reads the edge temperature from the card's hwmon node.
// The value is in millidegrees.
func amdHwmonTemperature(root string) (float64, bool) {
	matches, err := filepath.Glob(filepath.Join(root, "hwmon", "hwmon*", "temp1_input"))
	if err != nil || len(matches) == 0 {
		return 0, false
	}
	milli, err := readSysfsUint(matches[0])
	if err != nil {
		return 0, false
	}
	return float64(milli) / 1000.0, true
}

func readSysfsUint(path string) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}
