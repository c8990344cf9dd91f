package turing

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Engine is the high-level entry point for the Turing library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	name    string
}

var _ ports.EditableMachine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the machine in logs and lifecycle events.
func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// New initializes an engine over alphabet with no states and an empty tape.
func New(alphabet domain.Alphabet, opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(alphabet,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithName(eng.name),
	)
	return eng
}

// Step applies one transition. See runtime.Engine.Step for the halting and
// configuration error rules.
func (e *Engine) Step(ctx context.Context) (domain.Outcome, error) {
	return e.runtime.Step(ctx)
}

// Reset returns to the first state with the head at 0, keeping the tape.
func (e *Engine) Reset() {
	e.runtime.Reset()
}

// IsHalted reports whether the machine reached Accept or Reject.
func (e *Engine) IsHalted() bool {
	return e.runtime.IsHalted()
}

// ReadCell returns the symbol at pos; unwritten cells read Blank.
func (e *Engine) ReadCell(pos int) domain.Symbol {
	return e.runtime.ReadCell(pos)
}

// Read returns the symbol under the head.
func (e *Engine) Read() domain.Symbol {
	return e.runtime.Read()
}

// SetTape replaces the tape contents starting at position 0.
func (e *Engine) SetTape(symbols []domain.Symbol) {
	e.runtime.SetTape(symbols)
}

// AddState appends a state and returns its id.
// Missing transitions are not an error until the machine reaches them.
func (e *Engine) AddState(name string, transitions domain.TransitionMap) domain.StateID {
	return e.runtime.AddState(name, transitions)
}

// RenameState relabels the state at index.
// It fails with domain.ErrUnknownState when index is out of range.
func (e *Engine) RenameState(index int, name string) error {
	return e.runtime.RenameState(index, name)
}

// SetTransition defines or replaces the rule for (index, symbol).
func (e *Engine) SetTransition(index int, symbol domain.Symbol, t domain.Transition) error {
	return e.runtime.SetTransition(index, symbol, t)
}

// ClearTransition removes the rule for (index, symbol). Stepping on that pair
// faults until it is defined again.
func (e *Engine) ClearTransition(index int, symbol domain.Symbol) error {
	return e.runtime.ClearTransition(index, symbol)
}

// Alphabet returns the working alphabet.
func (e *Engine) Alphabet() domain.Alphabet {
	return e.runtime.Alphabet()
}

// SetAlphabet replaces the working alphabet. Existing rules are left alone.
func (e *Engine) SetAlphabet(alphabet domain.Alphabet) {
	e.runtime.SetAlphabet(alphabet)
}

// States returns a copy of the state list.
func (e *Engine) States() []domain.State {
	return e.runtime.States()
}

// StateName returns the display label for id.
func (e *Engine) StateName(id domain.StateID) string {
	return e.runtime.StateName(id)
}

// Current returns the current state.
func (e *Engine) Current() domain.StateID {
	return e.runtime.Current()
}

// Head returns the head position.
func (e *Engine) Head() int {
	return e.runtime.Head()
}

// Steps returns the number of transitions applied since the last Reset.
func (e *Engine) Steps() int {
	return e.runtime.Steps()
}

// Tape returns a copy of the tape.
func (e *Engine) Tape() *domain.Tape {
	return e.runtime.Tape()
}

// Snapshot captures the run state for rendering.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.runtime.Snapshot()
}

// Name returns the label given with WithName.
func (e *Engine) Name() string {
	return e.name
}
