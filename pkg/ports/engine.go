package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Machine is the execution contract a driver clocks.
// Implementations are synchronous: every call completes before returning.
type Machine interface {
	// Step applies at most one transition.
	// A halted machine returns domain.OutcomeHalted and no error.
	// A missing transition returns domain.OutcomeFaulted and a *domain.ConfigError.
	Step(ctx context.Context) (domain.Outcome, error)

	// Snapshot returns the read model for rendering.
	Snapshot() domain.Snapshot

	// IsHalted reports whether the current state is Accept or Reject.
	IsHalted() bool
}

// Editor is the mutation contract presentation layers use to build and edit
// a machine definition and its tape.
type Editor interface {
	Alphabet() domain.Alphabet
	SetAlphabet(alphabet domain.Alphabet)
	AddState(name string, transitions domain.TransitionMap) domain.StateID
	RenameState(index int, name string) error
	SetTransition(index int, symbol domain.Symbol, t domain.Transition) error
	ClearTransition(index int, symbol domain.Symbol) error
	SetTape(symbols []domain.Symbol)
	Reset()
}

// EditableMachine is satisfied by the engine itself.
type EditableMachine interface {
	Machine
	Editor
}
