package metrics

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// runTool executes an external tool under a bounded timeout. A hung tool
// must never block the whole collection cycle; expiry surfaces as an error
// and the caller degrades the metric to unavailable.
func runTool(timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out after %s", name, timeout)
	}
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func toolInPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
