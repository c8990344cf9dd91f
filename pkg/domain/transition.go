package domain

import (
	"fmt"
	"strings"
)

// Direction is the head movement applied after a write.
type Direction int

const (
	Right Direction = iota
	Left
)

// Delta returns the head offset for the direction.
func (d Direction) Delta() int {
	if d == Left {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Left {
		return "L"
	}
	return "R"
}

// ParseDirection accepts l, left, r and right in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return Right, fmt.Errorf("invalid direction %q: expected L or R", s)
}

// MarshalText encodes the direction as "L" or "R".
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the same spellings as ParseDirection.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Transition is selected by the current (state, symbol) pair.
type Transition struct {
	Write Symbol    `json:"write" yaml:"write"`
	Move  Direction `json:"move" yaml:"move"`
	Next  StateID   `json:"next" yaml:"next"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s,%s,%s", t.Write, t.Move, t.Next)
}

// TransitionMap holds one transition per symbol of a state.
type TransitionMap map[Symbol]Transition

// Clone returns an independent copy of the map.
func (m TransitionMap) Clone() TransitionMap {
	out := make(TransitionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DefaultTransitions fills every symbol of the alphabet with a transition
// that rewrites the symbol, moves right and rejects.
// This is the starting row a freshly added state gets in the editor.
func DefaultTransitions(alphabet Alphabet) TransitionMap {
	m := make(TransitionMap, alphabet.Len())
	for _, s := range alphabet.Symbols() {
		m[s] = Transition{Write: s, Move: Right, Next: Reject}
	}
	return m
}
