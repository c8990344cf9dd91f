package runner

import (
	"log/slog"
	"time"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = time.Second

// MaxBatchSteps bounds the steps a single manual step request may ask for.
// Longer runs go through Run, which releases the machine between ticks.
const MaxBatchSteps = 10000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInterval sets the delay between two steps. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.Interval = d
		}
	}
}

// WithMaxSteps bounds how many steps a single Run applies. Zero means unlimited.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.MaxSteps = n
		}
	}
}

// WithHandler configures where snapshots are rendered after each step.
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}
