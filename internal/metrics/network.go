package metrics

import (
	"fmt"
	"strings"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// ReadNetwork returns cumulative counters per interface, loopbacks excluded
// by construction.
func ReadNetwork() ([]NetworkInterface, error) {
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("reading interface counters: %w", err)
	}

	var out []NetworkInterface
	for _, s := range stats {
		if isLoopbackName(s.Name) {
			continue
		}
		out = append(out, NetworkInterface{
			Name:        s.Name,
			BytesRecv:   s.BytesRecv,
			BytesSent:   s.BytesSent,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
		})
	}
	return out, nil
}

// isLoopbackName matches loopback interfaces by conventional name: "lo" and
// "lo0"-style on Unix. IOCounters does not expose interface flags, so the
// name is the available signal.
func isLoopbackName(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0")
}
