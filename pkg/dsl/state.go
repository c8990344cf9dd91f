package dsl

import "github.com/aretw0/turing/pkg/domain"

type rule struct {
	read  domain.Symbol
	write domain.Symbol
	move  domain.Direction
	next  string
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name    string
	rules   []rule
	builder *Builder
}

// On adds the transition taken when read is under the head.
// next is a state name, Accept or Reject. A later On for the same symbol wins.
func (s *StateBuilder) On(read, write domain.Symbol, move domain.Direction, next string) *StateBuilder {
	s.rules = append(s.rules, rule{read: read, write: write, move: move, next: next})
	return s
}

// Keep adds a transition that leaves the symbol unchanged.
func (s *StateBuilder) Keep(read domain.Symbol, move domain.Direction, next string) *StateBuilder {
	return s.On(read, read, move, next)
}

// State returns to the machine builder to add another state.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}
