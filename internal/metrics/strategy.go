package metrics

import (
	"log/slog"
)

// Strategy is one probe in an ordered fallback chain. Available is a cheap
// precondition check; Extract does the actual read. Each strategy is
// attempted at most once per cycle — the chain falls through to the next
// source, it never retries.
type Strategy[T any] interface {
	Name() string
	Available() bool
	Extract() (T, error)
}

// Resolve tries strategies in order and returns the first successful result.
// When every strategy fails it returns the type's defined unavailable value.
// New fallback sources are added to the chain without touching call sites.
func Resolve[T any](logger *slog.Logger, unavailable T, chain ...Strategy[T]) T {
	for _, s := range chain {
		if !s.Available() {
			continue
		}
		result, err := s.Extract()
		if err != nil {
			logger.Warn("strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		logger.Debug("strategy resolved", "strategy", s.Name())
		return result
	}
	return unavailable
}
