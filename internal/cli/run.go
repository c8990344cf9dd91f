package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing/pkg/domain"
)

// RunOptions contains all the configuration for the REPL.
type RunOptions struct {
	Alphabet string
	Tape     string
	Example  string // library machine to start from instead of an empty one
	Interval time.Duration
	MaxSteps int
	JSON     bool
	NoColor  bool
	NoBanner bool
	Debug    bool

	// Logger receives engine and runner logs. Nil discards them unless Debug is set.
	Logger *slog.Logger
	// Hooks are attached to the engine, e.g. metrics.
	Hooks domain.LifecycleHooks

	In  io.Reader
	Out io.Writer
}

// Execute builds the machine described by opts and runs the REPL until quit,
// end of input or Ctrl+C while idle.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.Debug)
	}

	engine, err := createEngine(opts, logger)
	if err != nil {
		return err
	}

	session, err := NewSession(engine, opts, logger)
	if err != nil {
		return err
	}
	return session.Run(ctx, opts.In)
}
