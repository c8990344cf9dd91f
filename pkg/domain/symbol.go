package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Symbol is a single tape character.
type Symbol rune

// Blank occupies every tape cell that was never written.
const Blank Symbol = '□'

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(rune(s))
}

// MarshalText encodes the symbol as a one-character string, so symbols read
// naturally in JSON payloads and as map keys.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(string(rune(s))), nil
}

// UnmarshalText decodes exactly one character.
func (s *Symbol) UnmarshalText(text []byte) error {
	r, size := utf8.DecodeRune(text)
	if r == utf8.RuneError || size != len(text) {
		return fmt.Errorf("symbol must be exactly one character, got %q", string(text))
	}
	*s = Symbol(r)
	return nil
}

// ParseSymbol reads a symbol typed by a user: a single character, or the
// word "blank" for Blank.
func ParseSymbol(s string) (Symbol, error) {
	if strings.EqualFold(s, "blank") {
		return Blank, nil
	}
	var sym Symbol
	if err := sym.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return sym, nil
}

// Alphabet is the ordered working alphabet of a machine.
// Blank is always present and always last.
type Alphabet struct {
	symbols []Symbol
}

// NewAlphabet builds an alphabet from user symbols.
// Duplicates and explicit Blanks are dropped, then Blank is appended.
func NewAlphabet(symbols ...Symbol) Alphabet {
	seen := make(map[Symbol]bool, len(symbols))
	out := make([]Symbol, 0, len(symbols)+1)
	for _, s := range symbols {
		if s == Blank || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return Alphabet{symbols: append(out, Blank)}
}

// Symbols returns a copy of the alphabet, Blank last.
func (a Alphabet) Symbols() []Symbol {
	if len(a.symbols) == 0 {
		return []Symbol{Blank}
	}
	out := make([]Symbol, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Contains reports whether s belongs to the alphabet. Blank always does.
func (a Alphabet) Contains(s Symbol) bool {
	if s == Blank {
		return true
	}
	for _, v := range a.symbols {
		if v == s {
			return true
		}
	}
	return false
}

// Len counts the symbols including Blank.
func (a Alphabet) Len() int {
	if len(a.symbols) == 0 {
		return 1
	}
	return len(a.symbols)
}

// String renders the user symbols without Blank, the way they were typed.
func (a Alphabet) String() string {
	runes := make([]rune, 0, len(a.symbols))
	for _, s := range a.symbols {
		if s != Blank {
			runes = append(runes, rune(s))
		}
	}
	return string(runes)
}

// MarshalText encodes the alphabet as its user symbols.
func (a Alphabet) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes every rune of text as a symbol.
func (a *Alphabet) UnmarshalText(text []byte) error {
	runes := []rune(string(text))
	symbols := make([]Symbol, len(runes))
	for i, r := range runes {
		symbols[i] = Symbol(r)
	}
	*a = NewAlphabet(symbols...)
	return nil
}
