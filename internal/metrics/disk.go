package metrics

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/vesaa/hostpulse/internal/env"
)

// WindowsBridgePath is where WSL mounts the Windows system drive. On a
// compatibility layer this volume is the one the operator actually cares
// about, so it wins primary-volume selection there.
const WindowsBridgePath = "/mnt/c"

// pseudoFstypes are filesystem types that hold no durable data and are
// excluded from volume enumeration. Note drvfs/9p (the WSL Windows bridge)
// is real storage and deliberately absent from this list.
var pseudoFstypes = map[string]bool{
	"tmpfs":       true,
	"devtmpfs":    true,
	"devfs":       true,
	"proc":        true,
	"procfs":      true,
	"sysfs":       true,
	"overlay":     true,
	"overlayfs":   true,
	"squashfs":    true,
	"ramfs":       true,
	"autofs":      true,
	"efivarfs":    true,
	"fusectl":     true,
	"securityfs":  true,
	"debugfs":     true,
	"tracefs":     true,
	"pstore":      true,
	"binfmt_misc": true,
	"mqueue":      true,
	"hugetlbfs":   true,
	"configfs":    true,
	"bpf":         true,
}

func isPseudoFstype(fstype string) bool {
	ft := strings.ToLower(fstype)
	return pseudoFstypes[ft] || strings.HasPrefix(ft, "cgroup")
}

// ReadVolumes enumerates real mounted filesystems, computes usage for each
// and flags exactly one as primary. Volumes whose usage read fails are
// skipped rather than reported with zeroes.
func ReadVolumes(environment env.Info) ([]DiskVolume, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("enumerating partitions: %w", err)
	}

	var volumes []DiskVolume
	for _, p := range partitions {
		if isPseudoFstype(p.Fstype) {
			continue
		}
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		volumes = append(volumes, DiskVolume{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: clampPercent(usage.UsedPercent),
		})
	}
	if len(volumes) == 0 {
		return nil, fmt.Errorf("no real filesystems found")
	}

	volumes[primaryVolumeIndex(volumes, environment)].Primary = true
	return volumes, nil
}

// primaryVolumeIndex applies the deterministic preference rule: the Windows
// bridge mount on a compatibility layer, else the root mount, else the first
// enumerated volume.
func primaryVolumeIndex(volumes []DiskVolume, environment env.Info) int {
	if environment.Kind.IsCompatLayer() {
		for i, v := range volumes {
			if v.Mountpoint == WindowsBridgePath {
				return i
			}
		}
	}
	for i, v := range volumes {
		if v.Mountpoint == "/" {
			return i
		}
	}
	return 0
}
