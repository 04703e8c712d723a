// Package report holds the snapshot consumers: directory setup, the
// append-only CSV history and the HTML report. Reporters only format the
// finished snapshot; they never re-derive its numbers.
package report

import (
	"fmt"
	"os"
)

// Dirs is the on-disk layout one run produces into.
type Dirs struct {
	Data    string
	Logs    string
	Reports string
}

// Setup creates the three directories idempotently. This is the one fatal
// failure in the whole pipeline: without the directories there is nowhere to
// put logs or results, so the run must abort.
func (d Dirs) Setup() error {
	for _, dir := range []string{d.Data, d.Logs, d.Reports} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
