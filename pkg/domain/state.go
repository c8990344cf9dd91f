package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StateKind tags the variant held by a StateID.
type StateKind uint8

const (
	KindRunning StateKind = iota
	KindAccept
	KindReject
)

// StateID is either Running(index) into the state list, or one of the two
// terminal markers. The zero value is Running(0), the first defined state.
type StateID struct {
	kind  StateKind
	index int
}

var (
	// Accept is the terminal "yes" marker.
	Accept = StateID{kind: KindAccept}
	// Reject is the terminal "no" marker.
	Reject = StateID{kind: KindReject}
)

// Running refers to the state at position index.
func Running(index int) StateID {
	return StateID{kind: KindRunning, index: index}
}

// Kind returns the variant tag.
func (id StateID) Kind() StateKind {
	return id.kind
}

// Index returns the state position, and false for terminal markers.
func (id StateID) Index() (int, bool) {
	if id.kind != KindRunning {
		return 0, false
	}
	return id.index, true
}

// IsHalted reports whether id is Accept or Reject.
func (id StateID) IsHalted() bool {
	return id.kind == KindAccept || id.kind == KindReject
}

// String returns "yes" or "no" for terminal markers and the index otherwise.
// Renderers show the state name for Running states instead.
func (id StateID) String() string {
	switch id.kind {
	case KindAccept:
		return "yes"
	case KindReject:
		return "no"
	}
	return strconv.Itoa(id.index)
}

// ParseStateID accepts a non-negative index, or yes/y/accept and no/n/reject.
func ParseStateID(s string) (StateID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "accept":
		return Accept, nil
	case "no", "n", "reject":
		return Reject, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return StateID{}, fmt.Errorf("invalid state id %q", s)
	}
	return Running(i), nil
}

// MarshalJSON encodes Running states as numbers and terminals as "yes"/"no".
func (id StateID) MarshalJSON() ([]byte, error) {
	if id.kind == KindRunning {
		return []byte(strconv.Itoa(id.index)), nil
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts either a number or a string understood by ParseStateID.
func (id *StateID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("invalid state index %d", n)
		}
		*id = Running(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("state id must be a number or a string: %w", err)
	}
	v, err := ParseStateID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// State is a named node of the automaton with one transition per symbol.
type State struct {
	Name        string        `json:"name" yaml:"name"`
	Transitions TransitionMap `json:"transitions" yaml:"transitions"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{Name: s.Name, Transitions: s.Transitions.Clone()}
}

// DefaultStateName is the name given to the n-th state when none is supplied.
func DefaultStateName(n int) string {
	return fmt.Sprintf("state%d", n)
}
