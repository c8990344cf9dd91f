package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Reason explains why a run stopped.
type Reason int

const (
	ReasonAccepted Reason = iota + 1
	ReasonRejected
	ReasonStopped
	ReasonFaulted
	ReasonStepLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonAccepted:
		return "accepted"
	case ReasonRejected:
		return "rejected"
	case ReasonStopped:
		return "stopped"
	case ReasonFaulted:
		return "faulted"
	case ReasonStepLimit:
		return "step limit"
	}
	return "unknown"
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (r *Reason) UnmarshalText(text []byte) error {
	for v := ReasonAccepted; v <= ReasonStepLimit; v++ {
		if v.String() == string(text) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("unknown run reason %q", text)
}

// Result summarizes a finished run.
type Result struct {
	Reason   Reason          `json:"reason"`
	Steps    int             `json:"steps"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// Runner steps a machine on a fixed interval.
type Runner struct {
	// Interval is the delay between two steps.
	Interval time.Duration

	// MaxSteps bounds the steps applied by one call. Zero means unlimited.
	MaxSteps int

	// Handler renders the snapshot after every applied step.
	// If nil, nothing is rendered.
	Handler Handler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// NewRunner creates a Runner with the default one second interval.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Interval: DefaultInterval,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run steps m once per tick until it halts, fails, reaches MaxSteps or ctx
// is cancelled. Cancellation is not an error: the result reason is
// ReasonStopped. A configuration error returns ReasonFaulted and the error.
func (r *Runner) Run(ctx context.Context, m ports.Machine) (Result, error) {
	if m.IsHalted() {
		return r.result(m, 0, haltReason(m)), nil
	}

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger().Debug("run started", "interval", interval, "max_steps", r.MaxSteps)

	applied := 0
	for {
		select {
		case <-ctx.Done():
			return r.stopped(m, applied), nil
		case <-ticker.C:
		}
		// Both channels can be ready at once; a stop request wins.
		if ctx.Err() != nil {
			return r.stopped(m, applied), nil
		}

		done, res, err := r.tick(ctx, m, &applied)
		if done {
			return res, err
		}
	}
}

// StepN applies up to n steps back to back with the same stop rules as Run.
// It returns ReasonStepLimit when all n steps were applied without halting.
func (r *Runner) StepN(ctx context.Context, m ports.Machine, n int) (Result, error) {
	if m.IsHalted() {
		return r.result(m, 0, haltReason(m)), nil
	}

	applied := 0
	for applied < n {
		if ctx.Err() != nil {
			return r.stopped(m, applied), nil
		}
		// StepN has its own bound; MaxSteps only applies to timed runs.
		done, res, err := r.step(ctx, m, &applied)
		if done {
			return res, err
		}
	}
	return r.result(m, applied, ReasonStepLimit), nil
}

func (r *Runner) tick(ctx context.Context, m ports.Machine, applied *int) (bool, Result, error) {
	done, res, err := r.step(ctx, m, applied)
	if done {
		return done, res, err
	}
	if r.MaxSteps > 0 && *applied >= r.MaxSteps {
		r.logger().Debug("run reached step limit", "steps", *applied)
		return true, r.result(m, *applied, ReasonStepLimit), nil
	}
	return false, Result{}, nil
}

// step applies one transition and renders it. done is true when the run must end.
func (r *Runner) step(ctx context.Context, m ports.Machine, applied *int) (bool, Result, error) {
	outcome, err := m.Step(ctx)
	switch outcome {
	case domain.OutcomeFaulted:
		return true, r.result(m, *applied, ReasonFaulted), err
	case domain.OutcomeHalted:
		return true, r.result(m, *applied, haltReason(m)), nil
	}
	if err != nil {
		return true, r.result(m, *applied, ReasonFaulted), err
	}
	*applied++

	snap := m.Snapshot()
	if r.Handler != nil {
		if err := r.Handler.Render(ctx, snap); err != nil {
			return true, Result{Reason: ReasonStopped, Steps: *applied, Snapshot: snap}, fmt.Errorf("render error: %w", err)
		}
	}
	if snap.Halted {
		return true, Result{Reason: haltReason(m), Steps: *applied, Snapshot: snap}, nil
	}
	return false, Result{}, nil
}

func (r *Runner) stopped(m ports.Machine, applied int) Result {
	r.logger().Debug("run stopped", "steps", applied)
	return r.result(m, applied, ReasonStopped)
}

func (r *Runner) result(m ports.Machine, applied int, reason Reason) Result {
	return Result{Reason: reason, Steps: applied, Snapshot: m.Snapshot()}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func haltReason(m ports.Machine) Reason {
	if m.Snapshot().Rejected() {
		return ReasonRejected
	}
	return ReasonAccepted
}

// IsFault reports whether err came from a machine configuration problem
// rather than from rendering or cancellation.
func IsFault(err error) bool {
	return errors.Is(err, domain.ErrConfiguration)
}
