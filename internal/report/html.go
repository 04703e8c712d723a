package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/vesaa/hostpulse/internal/alert"
	"github.com/vesaa/hostpulse/internal/metrics"
)

// WriteHTML renders the human-readable report into the reports directory and
// returns the file path. One file per run, named by capture time.
func WriteHTML(reportsDir string, snap *metrics.MetricsSnapshot, alerts []alert.Event) (string, error) {
	path := filepath.Join(reportsDir,
		fmt.Sprintf("report-%s.html", snap.CapturedAt.Format("20060102-150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	data := struct {
		Snap   *metrics.MetricsSnapshot
		Alerts []alert.Event
	}{snap, alerts}

	if err := reportTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"bytes": func(b uint64) string { return humanize.IBytes(b) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	// f1 accepts both float64 and *float64: templates hand optional
	// readings over as pointers.
	"f1": func(v any) string {
		switch t := v.(type) {
		case float64:
			return fmt.Sprintf("%.1f", t)
		case *float64:
			if t != nil {
				return fmt.Sprintf("%.1f", *t)
			}
		}
		return ""
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>hostpulse report — {{.Snap.CapturedAt.Format "2006-01-02 15:04:05"}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; } h2 { font-size: 1.1rem; margin-top: 1.6rem; }
table { border-collapse: collapse; min-width: 28rem; }
td, th { border: 1px solid #ccc; padding: .35rem .6rem; text-align: left; font-size: .9rem; }
th { background: #f3f3f3; }
.badge { display: inline-block; padding: .15rem .5rem; border-radius: .3rem; background: #eef; font-size: .85rem; }
.alert { color: #b00; font-weight: 600; }
.estimate { color: #888; font-style: italic; }
.ok { color: #070; }
</style>
</head>
<body>
<h1>hostpulse snapshot</h1>
<p>
Captured {{.Snap.CapturedAt.Format "2006-01-02 15:04:05"}}
{{if .Snap.Host}} on <strong>{{.Snap.Host.Hostname}}</strong> (up {{f1 .Snap.Host.UptimeDays}} days){{end}}
— environment <span class="badge">{{.Snap.Environment.Kind}}</span>
</p>

{{if .Alerts}}
<h2>Alerts</h2>
<ul>
{{range .Alerts}}<li class="alert">{{.}}</li>
{{end}}</ul>
{{end}}

<h2>CPU</h2>
{{with .Snap.CPU}}
<table>
<tr><th>Model</th><td>{{.Model}}</td></tr>
<tr><th>Logical cores</th><td>{{.Cores}}</td></tr>
<tr><th>Utilization</th><td>{{pct .UsagePercent}}</td></tr>
{{with .Load}}<tr><th>Load 1/5/15m</th><td>{{f1 .Load1}} / {{f1 .Load5}} / {{f1 .Load15}}</td></tr>{{end}}
</table>
{{else}}<p>N/A</p>{{end}}

<h2>Memory</h2>
{{with .Snap.Memory}}
<table>
<tr><th>Total</th><td>{{bytes .Total}}</td></tr>
<tr><th>Used</th><td>{{bytes .Used}} ({{pct .UsedPercent}})</td></tr>
<tr><th>Free</th><td>{{bytes .Free}}</td></tr>
<tr><th>Available</th><td>{{bytes .Available}}</td></tr>
{{if .Caveat}}<tr><th>Caveat</th><td class="alert">{{.Caveat}}</td></tr>{{end}}
</table>
{{else}}<p>N/A</p>{{end}}

<h2>Disks</h2>
{{if .Snap.Volumes}}
<table>
<tr><th>Mount</th><th>Filesystem</th><th>Total</th><th>Used</th><th>Usage</th><th></th></tr>
{{range .Snap.Volumes}}
<tr><td>{{.Mountpoint}}</td><td>{{.Fstype}}</td><td>{{bytes .Total}}</td><td>{{bytes .Used}}</td><td>{{pct .UsedPercent}}</td><td>{{if .Primary}}primary{{end}}</td></tr>
{{end}}</table>
{{else}}<p>N/A</p>{{end}}

<h2>Disk health{{with .Snap.DiskHealth.Device}} ({{.}}){{end}}</h2>
{{with .Snap.DiskHealth}}
{{if .Available}}<p class="{{if eq .Status.String "PASSED"}}ok{{else}}alert{{end}}">{{.Status}}</p>
{{else}}<p>Not checked — {{.Reason}}</p>{{end}}
{{end}}

<h2>Temperature</h2>
{{with .Snap.CPUTemperature}}
{{if eq .Provenance.String "unavailable"}}<p>N/A</p>
{{else if eq .Provenance.String "synthetic"}}<p class="estimate">CPU {{f1 .Celsius}}°C (estimated)</p>
{{else}}<p>CPU {{f1 .Celsius}}°C ({{.Provenance}})</p>{{end}}
{{end}}

<h2>GPU</h2>
{{with .Snap.GPU}}
{{if .Detected}}
<table>
<tr><th>Vendor</th><td>{{.Vendor}}</td></tr>
<tr><th>Name</th><td>{{.Name}}</td></tr>
<tr><th>Utilization</th><td>{{pct .UsagePercent}}</td></tr>
<tr><th>Memory</th><td>{{bytes .MemoryUsedBytes}} / {{bytes .MemoryTotalBytes}}</td></tr>
{{with .Temperature}}<tr><th>Temperature</th><td>{{f1 .}}°C</td></tr>{{end}}
</table>
{{else}}<p>No GPU detected</p>{{end}}
{{end}}

<h2>Network</h2>
{{if .Snap.Network}}
<table>
<tr><th>Interface</th><th>RX</th><th>TX</th><th>RX pkts</th><th>TX pkts</th></tr>
{{range .Snap.Network}}
<tr><td>{{.Name}}</td><td>{{bytes .BytesRecv}}</td><td>{{bytes .BytesSent}}</td><td>{{.PacketsRecv}}</td><td>{{.PacketsSent}}</td></tr>
{{end}}</table>
{{else}}<p>N/A</p>{{end}}

<h2>Top processes by memory ({{.Snap.ProcessCount}} total)</h2>
{{if .Snap.Processes}}
<table>
<tr><th>PID</th><th>User</th><th>Memory</th><th>Command</th></tr>
{{range .Snap.Processes}}
<tr><td>{{.PID}}</td><td>{{.User}}</td><td>{{pct .MemoryPercent}}</td><td><code>{{.Command}}</code></td></tr>
{{end}}</table>
{{else}}<p>N/A</p>{{end}}

</body>
</html>
`))
