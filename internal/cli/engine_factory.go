package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
)

// createEngine initializes a machine from the command line: a library
// example when one is named, otherwise an empty machine over the alphabet.
func createEngine(opts RunOptions, logger *slog.Logger) (*turing.Engine, error) {
	var engine *turing.Engine
	if opts.Example != "" {
		e, err := registry.Default().Build(opts.Example, engineOptions(opts, logger)...)
		if err != nil {
			return nil, fmt.Errorf("error loading --example: %w", err)
		}
		engine = e
	} else {
		alphabet, err := runner.ParseAlphabet(opts.Alphabet)
		if err != nil {
			return nil, fmt.Errorf("error parsing --alphabet: %w", err)
		}
		engine = turing.New(alphabet, engineOptions(opts, logger)...)
	}

	if opts.Tape != "" {
		symbols, err := runner.ParseTape(opts.Tape, engine.Alphabet())
		if err != nil {
			return nil, fmt.Errorf("error parsing --tape: %w", err)
		}
		engine.SetTape(symbols)
	}
	return engine, nil
}

func engineOptions(opts RunOptions, logger *slog.Logger) []turing.Option {
	engineOpts := []turing.Option{
		turing.WithName("repl"),
		turing.WithLogger(logger),
		turing.WithLifecycleHooks(opts.Hooks),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, turing.WithLifecycleHooks(createDebugHooks(logger)))
	}
	return engineOpts
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("transition", "from", e.From.String(), "to", e.To.String(), "read", e.Read.String(), "write", e.Write.String())
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			logger.Debug("fault", "err", e.Err)
		},
	}
}
