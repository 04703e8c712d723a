package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRelease(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		release  string
		expected Kind
	}{
		{
			name:     "WSL2 marker",
			goos:     "linux",
			release:  "5.15.90.1-microsoft-standard-WSL2",
			expected: CompatLayerV2,
		},
		{
			name:     "microsoft-standard without WSL2 suffix",
			goos:     "linux",
			release:  "5.10.16.3-microsoft-standard",
			expected: CompatLayerV2,
		},
		{
			name:     "WSL1 marker",
			goos:     "linux",
			release:  "4.4.0-19041-Microsoft",
			expected: CompatLayerV1,
		},
		{
			name:     "plain linux",
			goos:     "linux",
			release:  "6.8.0-45-generic",
			expected: NativeLinux,
		},
		{
			name:     "darwin ignores release",
			goos:     "darwin",
			release:  "23.5.0",
			expected: MacOS,
		},
		{
			name:     "empty release is unknown",
			goos:     "linux",
			release:  "",
			expected: Unknown,
		},
		{
			name:     "unsupported platform",
			goos:     "windows",
			release:  "10.0.19045",
			expected: Unknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyRelease(tc.goos, tc.release))
		})
	}
}

func TestClassifyReleaseDeterministic(t *testing.T) {
	// Identical input text must yield identical classification across calls.
	const release = "5.15.90.1-microsoft-standard-WSL2"
	first := ClassifyRelease("linux", release)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ClassifyRelease("linux", release))
	}
}

func TestKindIsCompatLayer(t *testing.T) {
	assert.True(t, CompatLayerV1.IsCompatLayer())
	assert.True(t, CompatLayerV2.IsCompatLayer())
	assert.False(t, NativeLinux.IsCompatLayer())
	assert.False(t, MacOS.IsCompatLayer())
	assert.False(t, Unknown.IsCompatLayer())
}
