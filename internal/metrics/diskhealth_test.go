package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSmartHealth(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		expected HealthStatus
	}{
		{
			name:     "ATA passed verdict",
			out:      "=== START OF READ SMART DATA SECTION ===\nSMART overall-health self-assessment test result: PASSED\n",
			expected: HealthPassed,
		},
		{
			name:     "ATA failed verdict",
			out:      "SMART overall-health self-assessment test result: FAILED!\nDrive failure expected in less than 24 hours.\n",
			expected: HealthFailed,
		},
		{
			name:     "SCSI/NVMe OK verdict",
			out:      "SMART Health Status: OK\n",
			expected: HealthPassed,
		},
		{
			name:     "garbage output",
			out:      "smartctl: unrecognized device\n",
			expected: HealthUnknown,
		},
		{
			name:     "empty output",
			out:      "",
			expected: HealthUnknown,
		},
		{
			name:     "verdict line without a known word",
			out:      "SMART overall-health self-assessment test result: UNKNOWN!\n",
			expected: HealthUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseSmartHealth(tc.out))
		})
	}
}

func TestBaseDevice(t *testing.T) {
	tests := []struct {
		device   string
		expected string
	}{
		{"/dev/sda1", "/dev/sda"},
		{"/dev/sda", "/dev/sda"},
		{"/dev/sdb12", "/dev/sdb"},
		{"/dev/nvme0n1p2", "/dev/nvme0n1"},
		{"/dev/nvme0n1", "/dev/nvme0n1"},
		{"/dev/mmcblk0p1", "/dev/mmcblk0"},
		{"/dev/mmcblk0", "/dev/mmcblk0"},
		{"/dev/vda1", "/dev/vda"},
	}

	for _, tc := range tests {
		t.Run(tc.device, func(t *testing.T) {
			assert.Equal(t, tc.expected, baseDevice(tc.device))
		})
	}
}

func TestResolveDiskHealthNoDevice(t *testing.T) {
	logger := discardLogger()

	got := ResolveDiskHealth(logger, nil, time.Second)
	assert.False(t, got.Available)
	assert.Equal(t, HealthNotChecked, got.Status)
	assert.Equal(t, ReasonNoDevice, got.Reason)

	// A WSL bridge volume has a Windows device identifier, not /dev/.
	bridge := &DiskVolume{Device: "C:\\", Mountpoint: "/mnt/c"}
	got = ResolveDiskHealth(logger, bridge, time.Second)
	assert.Equal(t, HealthNotChecked, got.Status)
	assert.Equal(t, ReasonNoDevice, got.Reason)
}

func TestResolveDiskHealthToolNotFound(t *testing.T) {
	// An empty PATH guarantees smartctl cannot be found.
	t.Setenv("PATH", t.TempDir())

	got := ResolveDiskHealth(discardLogger(), &DiskVolume{Device: "/dev/sda1"}, time.Second)
	assert.False(t, got.Available)
	assert.Equal(t, HealthNotChecked, got.Status)
	assert.Equal(t, ReasonToolNotFound, got.Reason)
	assert.Equal(t, "/dev/sda", got.Device)
}

func TestResolveDiskHealthPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("needs a non-root euid to hit the privilege gate")
	}

	// Put a fake smartctl in PATH so the tool gate passes and only the
	// privilege gate can stop the query.
	dir := t.TempDir()
	fake := filepath.Join(dir, "smartctl")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)

	got := ResolveDiskHealth(discardLogger(), &DiskVolume{Device: "/dev/sda1"}, time.Second)
	assert.False(t, got.Available)
	assert.Equal(t, HealthNotChecked, got.Status)
	assert.Equal(t, ReasonPermissionDenied, got.Reason)
}
