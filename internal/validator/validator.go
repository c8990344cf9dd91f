// Package validator lints a machine definition ahead of time. The engine
// itself only reports a missing transition when a step reaches it.
package validator

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Kind classifies an Issue.
type Kind string

const (
	// KindNoStates means the machine has no start state.
	KindNoStates Kind = "no-states"
	// KindMissingTransition is a reachable (state, symbol) pair with no rule.
	KindMissingTransition Kind = "missing-transition"
	// KindUnknownTarget is a rule that jumps past the last state.
	KindUnknownTarget Kind = "unknown-target"
	// KindUnreachable is a state not reachable from state 0.
	KindUnreachable Kind = "unreachable"
	// KindForeignSymbol is a rule mentioning a symbol outside the alphabet.
	KindForeignSymbol Kind = "foreign-symbol"
)

// Issue is one finding of Check.
type Issue struct {
	Kind    Kind           `json:"kind"`
	State   domain.StateID `json:"state"`
	Symbol  *domain.Symbol `json:"symbol,omitempty"`
	Message string         `json:"message"`
}

func (i Issue) String() string {
	return i.Message
}

// Check walks the machine from state 0 and reports broken rules first, then
// unreachable states. A nil result means every reachable pair has a rule.
func Check(states []domain.State, alphabet domain.Alphabet) []Issue {
	if len(states) == 0 {
		return []Issue{{Kind: KindNoStates, State: domain.Running(0), Message: "machine has no states"}}
	}

	var issues []Issue
	visited := make([]bool, len(states))
	queue := []int{0}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true
		state := states[current]
		id := domain.Running(current)

		for _, sym := range alphabet.Symbols() {
			t, ok := state.Transitions[sym]
			if !ok {
				issues = append(issues, issue(KindMissingTransition, id, sym,
					"state %s has no transition for %s", state.Name, sym))
				continue
			}
			if !alphabet.Contains(t.Write) {
				issues = append(issues, issue(KindForeignSymbol, id, sym,
					"state %s on %s writes %s, which is not in the alphabet", state.Name, sym, t.Write))
			}
			next, ok := t.Next.Index()
			if !ok {
				continue
			}
			if next < 0 || next >= len(states) {
				issues = append(issues, issue(KindUnknownTarget, id, sym,
					"state %s on %s goes to #%d, which does not exist", state.Name, sym, next))
				continue
			}
			if !visited[next] {
				queue = append(queue, next)
			}
		}

		for _, sym := range slices.Sorted(maps.Keys(state.Transitions)) {
			if !alphabet.Contains(sym) {
				issues = append(issues, issue(KindForeignSymbol, id, sym,
					"state %s has a rule for %s, which is not in the alphabet", state.Name, sym))
			}
		}
	}

	for i, ok := range visited {
		if !ok {
			issues = append(issues, Issue{
				Kind:    KindUnreachable,
				State:   domain.Running(i),
				Message: fmt.Sprintf("state %s is unreachable", states[i].Name),
			})
		}
	}
	return issues
}

// Validate returns an error listing every issue, or nil.
func Validate(states []domain.State, alphabet domain.Alphabet) error {
	issues := Check(states, alphabet)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, is := range issues {
		lines[i] = is.Message
	}
	return fmt.Errorf("found %d issues:\n- %s", len(issues), strings.Join(lines, "\n- "))
}

func issue(kind Kind, id domain.StateID, sym domain.Symbol, format string, args ...any) Issue {
	return Issue{Kind: kind, State: id, Symbol: &sym, Message: fmt.Sprintf(format, args...)}
}
