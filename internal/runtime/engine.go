package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
)

// Engine owns one machine definition and its run state.
// It is synchronous and not safe for concurrent use; drivers serialize access.
type Engine struct {
	alphabet domain.Alphabet
	states   []domain.State
	tape     *domain.Tape

	current domain.StateID
	head    int
	steps   int

	name   string
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithName labels the machine in events and logs.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// NewEngine creates an engine with an empty tape, no states, and the run
// state at the first state with the head on position 0.
func NewEngine(alphabet domain.Alphabet, opts ...EngineOption) *Engine {
	e := &Engine{
		alphabet: alphabet,
		tape:     domain.NewTape(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadCell returns the symbol at pos. Positions never written read Blank.
func (e *Engine) ReadCell(pos int) domain.Symbol {
	return e.tape.Read(pos)
}

// Read returns the symbol under the head.
func (e *Engine) Read() domain.Symbol {
	return e.tape.Read(e.head)
}

// Step applies one transition.
// On a halted machine it does nothing and returns domain.OutcomeHalted.
// When the (state, symbol) pair has no transition it does nothing and returns
// domain.OutcomeFaulted with a *domain.ConfigError.
func (e *Engine) Step(ctx context.Context) (domain.Outcome, error) {
	if e.current.IsHalted() {
		return domain.OutcomeHalted, nil
	}

	symbol := e.Read()
	t, cfgErr := e.lookup(e.current, symbol)
	if cfgErr != nil {
		e.logger.Warn("step failed", "machine", e.name, "state", cfgErr.StateName, "symbol", symbol.String(), "err", cfgErr.Err)
		if e.hooks.OnFault != nil {
			e.hooks.OnFault(ctx, &domain.FaultEvent{
				EventBase: e.event(domain.EventFault),
				Err:       cfgErr,
			})
		}
		return domain.OutcomeFaulted, cfgErr
	}

	// Lookup succeeded: apply all effects together.
	from := e.current
	e.tape.Write(e.head, t.Write)
	e.head += t.Move.Delta()
	e.current = t.Next
	e.steps++

	e.logger.Debug("step",
		"machine", e.name,
		"from", e.StateName(from),
		"read", symbol.String(),
		"write", t.Write.String(),
		"move", t.Move.String(),
		"to", e.StateName(t.Next),
		"head", e.head,
	)

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: e.event(domain.EventStep),
			From:      from,
			To:        t.Next,
			Read:      symbol,
			Write:     t.Write,
			Move:      t.Move,
			Head:      e.head,
			Steps:     e.steps,
		})
	}
	if t.Next.IsHalted() {
		e.logger.Info("machine halted", "machine", e.name, "result", t.Next.String(), "steps", e.steps)
		if e.hooks.OnHalt != nil {
			e.hooks.OnHalt(ctx, &domain.HaltEvent{
				EventBase: e.event(domain.EventHalt),
				State:     t.Next,
				Steps:     e.steps,
			})
		}
	}

	return domain.OutcomeStepped, nil
}

func (e *Engine) lookup(id domain.StateID, symbol domain.Symbol) (domain.Transition, *domain.ConfigError) {
	idx, _ := id.Index()
	if idx < 0 || idx >= len(e.states) {
		return domain.Transition{}, &domain.ConfigError{State: id, Symbol: symbol, Err: domain.ErrUnknownState}
	}
	state := e.states[idx]
	t, ok := state.Transitions[symbol]
	if !ok {
		return domain.Transition{}, &domain.ConfigError{
			State:     id,
			StateName: state.Name,
			Symbol:    symbol,
			Err:       domain.ErrUndefinedTransition,
		}
	}
	return t, nil
}

func (e *Engine) event(kind domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: kind, Machine: e.name}
}

// Reset returns to the first state with the head on position 0.
// The tape keeps whatever has been written so far.
func (e *Engine) Reset() {
	e.current = domain.Running(0)
	e.head = 0
	e.steps = 0
	e.logger.Debug("machine reset", "machine", e.name)
}

// IsHalted reports whether the current state is Accept or Reject.
func (e *Engine) IsHalted() bool {
	return e.current.IsHalted()
}

// SetTape replaces the tape contents, anchored at position 0.
// Callers are expected to pass only alphabet symbols.
func (e *Engine) SetTape(symbols []domain.Symbol) {
	e.tape.Replace(symbols)
}

// AddState appends a state and returns its id.
// Transitions are not checked for completeness; gaps surface at Step time.
func (e *Engine) AddState(name string, transitions domain.TransitionMap) domain.StateID {
	if name == "" {
		name = domain.DefaultStateName(len(e.states))
	}
	e.states = append(e.states, domain.State{Name: name, Transitions: transitions.Clone()})
	return domain.Running(len(e.states) - 1)
}

// RenameState changes the display name of the state at index.
func (e *Engine) RenameState(index int, name string) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	e.states[index].Name = name
	return nil
}

// SetTransition defines or replaces the transition for (index, symbol).
func (e *Engine) SetTransition(index int, symbol domain.Symbol, t domain.Transition) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	if e.states[index].Transitions == nil {
		e.states[index].Transitions = make(domain.TransitionMap)
	}
	e.states[index].Transitions[symbol] = t
	return nil
}

// ClearTransition removes the transition for (index, symbol).
func (e *Engine) ClearTransition(index int, symbol domain.Symbol) error {
	if err := e.checkIndex(index); err != nil {
		return err
	}
	delete(e.states[index].Transitions, symbol)
	return nil
}

func (e *Engine) checkIndex(index int) error {
	if index < 0 || index >= len(e.states) {
		return fmt.Errorf("%w: index %d (have %d states)", domain.ErrUnknownState, index, len(e.states))
	}
	return nil
}

// Alphabet returns the working alphabet.
func (e *Engine) Alphabet() domain.Alphabet {
	return e.alphabet
}

// SetAlphabet replaces the working alphabet. Existing transitions are kept.
func (e *Engine) SetAlphabet(alphabet domain.Alphabet) {
	e.alphabet = alphabet
}

// States returns a deep copy of the state list.
func (e *Engine) States() []domain.State {
	out := make([]domain.State, len(e.states))
	for i, s := range e.states {
		out[i] = s.Clone()
	}
	return out
}

// StateName returns the display label of id: the state name, "yes" or "no".
func (e *Engine) StateName(id domain.StateID) string {
	idx, ok := id.Index()
	if !ok {
		return id.String()
	}
	if idx >= 0 && idx < len(e.states) {
		return e.states[idx].Name
	}
	return "#" + id.String()
}

// Current returns the current state id.
func (e *Engine) Current() domain.StateID {
	return e.current
}

// Head returns the head position.
func (e *Engine) Head() int {
	return e.head
}

// Steps counts transitions applied since the last reset.
func (e *Engine) Steps() int {
	return e.steps
}

// Name returns the machine label.
func (e *Engine) Name() string {
	return e.name
}

// Tape returns a copy of the tape.
func (e *Engine) Tape() *domain.Tape {
	return e.tape.Clone()
}

// Snapshot captures the run state for rendering.
func (e *Engine) Snapshot() domain.Snapshot {
	lo, hi, ok := e.tape.Bounds()
	if !ok {
		lo, hi = e.head, e.head
	}
	lo = min(lo, e.head)
	hi = max(hi, e.head)

	return domain.Snapshot{
		State:  e.current,
		Label:  e.StateName(e.current),
		Head:   e.head,
		Steps:  e.steps,
		Halted: e.current.IsHalted(),
		Origin: lo,
		Cells:  e.tape.Window(lo, hi),
	}
}
