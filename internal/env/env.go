// Package env classifies the execution environment hostpulse runs in.
// The classification matters mostly for memory: a WSL2 host reports the
// utility VM's virtualized memory, not the Windows machine's, so readings
// need an interpretation caveat attached downstream.
package env

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Kind is the host environment category.
type Kind int

const (
	// Unknown means the host identification source was unreadable.
	Unknown Kind = iota
	// NativeLinux is Linux on real (or fully host-true) hardware.
	NativeLinux
	// MacOS is a Darwin host.
	MacOS
	// CompatLayerV1 is WSL1: a syscall-translation layer sharing the
	// Windows host's real memory.
	CompatLayerV1
	// CompatLayerV2 is WSL2: a lightweight VM with its own virtualized
	// memory accounting.
	CompatLayerV2
)

func (k Kind) String() string {
	switch k {
	case NativeLinux:
		return "Native Linux"
	case MacOS:
		return "macOS"
	case CompatLayerV1:
		return "WSL1"
	case CompatLayerV2:
		return "WSL2"
	default:
		return "Unknown"
	}
}

// IsCompatLayer reports whether the host is any WSL generation.
func (k Kind) IsCompatLayer() bool {
	return k == CompatLayerV1 || k == CompatLayerV2
}

// Info is the classification result, computed once per run.
type Info struct {
	Kind Kind
	// KernelRelease is the raw release string the classification was made
	// from; empty when the source was unreadable.
	KernelRelease string
}

// Classify inspects the running host once and returns its classification.
// An unreadable identification source yields Unknown, never an error.
func Classify() Info {
	info, err := host.Info()
	if err != nil {
		return Info{Kind: Unknown}
	}
	release := info.KernelVersion
	return Info{
		Kind:          ClassifyRelease(runtime.GOOS, release),
		KernelRelease: release,
	}
}

// ClassifyRelease is the pure decision procedure: identical input always
// yields the same classification.
//
// WSL2 kernels carry "WSL2" or "microsoft-standard" in their release string
// (e.g. "5.15.90.1-microsoft-standard-WSL2"); WSL1 kernels carry "Microsoft"
// without the v2 markers (e.g. "4.4.0-19041-Microsoft").
func ClassifyRelease(goos, release string) Kind {
	if goos == "darwin" {
		return MacOS
	}
	if goos != "linux" {
		return Unknown
	}
	if release == "" {
		return Unknown
	}
	lower := strings.ToLower(release)
	switch {
	case strings.Contains(lower, "wsl2"), strings.Contains(lower, "microsoft-standard"):
		return CompatLayerV2
	case strings.Contains(lower, "microsoft"):
		return CompatLayerV1
	default:
		return NativeLinux
	}
}
