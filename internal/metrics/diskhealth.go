package metrics

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ResolveDiskHealth queries SMART overall health for the primary volume's
// device. The query needs both smartctl in PATH and elevated privileges;
// the two failure modes are surfaced as distinct reasons because the
// operator fixes them differently.
//
// Unlike GPU and temperature this is not a Strategy chain: there is only one
// source, and every gate that stops it must report why (the unavailable
// value carries a reason), whereas Resolve folds all failures into one
// unavailable result.
func ResolveDiskHealth(logger *slog.Logger, primary *DiskVolume, toolTimeout time.Duration) DiskHealth {
	if primary == nil || primary.Device == "" || !strings.HasPrefix(primary.Device, "/dev/") {
		return DiskHealth{Status: HealthNotChecked, Reason: ReasonNoDevice}
	}
	device := baseDevice(primary.Device)

	if !toolInPath("smartctl") {
		return DiskHealth{Status: HealthNotChecked, Device: device, Reason: ReasonToolNotFound}
	}
	if os.Geteuid() != 0 {
		return DiskHealth{Status: HealthNotChecked, Device: device, Reason: ReasonPermissionDenied}
	}

	// smartctl exits non-zero when the disk is failing, so the output is
	// parsed even on error.
	out, err := runTool(toolTimeout, "smartctl", "-H", device)
	status := parseSmartHealth(string(out))
	if status == HealthUnknown && err != nil {
		logger.Warn("smartctl query failed", "device", device, "error", err)
		return DiskHealth{Status: HealthNotChecked, Device: device,
			Reason: fmt.Sprintf("smartctl failed: %v", err)}
	}
	return DiskHealth{Available: true, Status: status, Device: device}
}

// baseDevice strips the partition suffix so smartctl sees the whole disk:
// /dev/sda1 → /dev/sda, /dev/nvme0n1p2 → /dev/nvme0n1,
// /dev/mmcblk0p1 → /dev/mmcblk0.
func baseDevice(device string) string {
	// nvme and mmcblk partitions carry a pN suffix; plain digit-trimming
	// would eat the disk number too.
	for _, marker := range []string{"nvme", "mmcblk"} {
		idx := strings.Index(device, marker)
		if idx < 0 {
			continue
		}
		if p := strings.LastIndex(device, "p"); p > idx {
			return device[:p]
		}
		return device
	}
	return strings.TrimRight(device, "0123456789")
}

func parseSmartHealth(out string) HealthStatus {
	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "overall-health") && !strings.Contains(lower, "smart health status") {
			continue
		}
		switch {
		case strings.Contains(lower, "passed"), strings.Contains(lower, ": ok"):
			return HealthPassed
		case strings.Contains(lower, "failed"):
			return HealthFailed
		}
	}
	return HealthUnknown
}
