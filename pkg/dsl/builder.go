package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
)

// Target names for the terminal markers.
const (
	Accept = "yes"
	Reject = "no"
)

// Builder manages the machine construction.
type Builder struct {
	alphabet string
	tape     string
	states   []*StateBuilder
	index    map[string]int
}

// New creates a builder over the given alphabet. Blank is always included.
func New(alphabet string) *Builder {
	return &Builder{
		alphabet: alphabet,
		index:    make(map[string]int),
	}
}

// State creates a new state in the machine.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	if i, ok := b.index[name]; ok {
		return b.states[i]
	}
	sb := &StateBuilder{name: name, builder: b}
	b.index[name] = len(b.states)
	b.states = append(b.states, sb)
	return sb
}

// Tape sets the initial tape contents.
func (b *Builder) Tape(text string) *Builder {
	b.tape = text
	return b
}

// Build compiles the machine into an engine configured with opts.
func (b *Builder) Build(opts ...turing.Option) (*turing.Engine, error) {
	alphabet, err := runner.ParseAlphabet(b.alphabet)
	if err != nil {
		return nil, fmt.Errorf("alphabet: %w", err)
	}

	var errs []error
	compiled := make([]domain.TransitionMap, len(b.states))
	for i, sb := range b.states {
		compiled[i] = make(domain.TransitionMap, len(sb.rules))
		for _, r := range sb.rules {
			next, err := b.resolve(r.next)
			if err != nil {
				errs = append(errs, fmt.Errorf("state %s on %s: %w", sb.name, r.read, err))
				continue
			}
			if !alphabet.Contains(r.read) || !alphabet.Contains(r.write) {
				errs = append(errs, fmt.Errorf("state %s on %s: symbol outside alphabet %q", sb.name, r.read, alphabet.String()))
				continue
			}
			compiled[i][r.read] = domain.Transition{Write: r.write, Move: r.move, Next: next}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	engine := turing.New(alphabet, opts...)
	for i, sb := range b.states {
		engine.AddState(sb.name, compiled[i])
	}
	if b.tape != "" {
		symbols, err := runner.ParseTape(b.tape, alphabet)
		if err != nil {
			return nil, fmt.Errorf("tape: %w", err)
		}
		engine.SetTape(symbols)
	}
	return engine, nil
}

func (b *Builder) resolve(target string) (domain.StateID, error) {
	switch target {
	case Accept:
		return domain.Accept, nil
	case Reject:
		return domain.Reject, nil
	}
	i, ok := b.index[target]
	if !ok {
		return domain.StateID{}, fmt.Errorf("%w: %q", domain.ErrUnknownState, target)
	}
	return domain.Running(i), nil
}
