// Package logging builds the hostpulse logger. Log lines follow the fixed
// on-disk contract "[YYYY-MM-DD HH:MM:SS] LEVEL: message", one line per
// event, appended to the run log and mirrored to stderr.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogFileName is the append-only run log inside the logs directory.
const LogFileName = "hostpulse.log"

const timeLayout = "2006-01-02 15:04:05"

// New returns a logger writing to <logsDir>/hostpulse.log and stderr.
// The returned closer closes the log file.
func New(logsDir, level string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(filepath.Join(logsDir, LogFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	h := NewLineHandler(io.MultiWriter(f, os.Stderr), parseLevel(level))
	return slog.New(h), f, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LineHandler renders records as "[YYYY-MM-DD HH:MM:SS] LEVEL: message".
// Attributes are appended to the message as "key=value" pairs so the line
// stays grep-able.
type LineHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

// NewLineHandler wraps w with the fixed line format at the given level.
func NewLineHandler(w io.Writer, level slog.Level) *LineHandler {
	return &LineHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("[%s] %s: %s", r.Time.Format(timeLayout), levelName(r.Level), r.Message)
	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})
	line += "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LineHandler{
		mu:    h.mu,
		w:     h.w,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *LineHandler) WithGroup(string) slog.Handler { return h }

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
