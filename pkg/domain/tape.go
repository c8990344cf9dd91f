package domain

import "strings"

// Tape is a conceptually bi-infinite tape stored as a sparse map keyed by
// signed position. Unwritten positions read Blank.
type Tape struct {
	cells map[int]Symbol
	lo    int
	hi    int
}

// NewTape returns a tape holding symbols starting at position 0.
func NewTape(symbols ...Symbol) *Tape {
	t := &Tape{}
	t.Replace(symbols)
	return t
}

// Read returns the symbol at pos, or Blank outside the materialized range.
func (t *Tape) Read(pos int) Symbol {
	if s, ok := t.cells[pos]; ok {
		return s
	}
	return Blank
}

// Write stores s at pos and widens the materialized range if needed.
func (t *Tape) Write(pos int, s Symbol) {
	if t.cells == nil {
		t.cells = make(map[int]Symbol)
	}
	if len(t.cells) == 0 {
		t.lo, t.hi = pos, pos
	} else {
		t.lo = min(t.lo, pos)
		t.hi = max(t.hi, pos)
	}
	t.cells[pos] = s
}

// Replace discards the current contents and anchors symbols at position 0.
func (t *Tape) Replace(symbols []Symbol) {
	t.cells = make(map[int]Symbol, len(symbols))
	t.lo, t.hi = 0, -1
	for i, s := range symbols {
		t.cells[i] = s
	}
	if len(symbols) > 0 {
		t.hi = len(symbols) - 1
	}
}

// Bounds returns the lowest and highest materialized positions.
// ok is false for an empty tape.
func (t *Tape) Bounds() (lo, hi int, ok bool) {
	if len(t.cells) == 0 {
		return 0, -1, false
	}
	return t.lo, t.hi, true
}

// Window returns the symbols for positions lo through hi inclusive.
func (t *Tape) Window(lo, hi int) []Symbol {
	if hi < lo {
		return nil
	}
	out := make([]Symbol, 0, hi-lo+1)
	for pos := lo; pos <= hi; pos++ {
		out = append(out, t.Read(pos))
	}
	return out
}

// Symbols returns the materialized range as a slice.
func (t *Tape) Symbols() []Symbol {
	lo, hi, ok := t.Bounds()
	if !ok {
		return nil
	}
	return t.Window(lo, hi)
}

// Clone returns an independent copy of the tape.
func (t *Tape) Clone() *Tape {
	c := &Tape{cells: make(map[int]Symbol, len(t.cells)), lo: t.lo, hi: t.hi}
	for k, v := range t.cells {
		c.cells[k] = v
	}
	return c
}

// String concatenates the materialized range.
func (t *Tape) String() string {
	var sb strings.Builder
	for _, s := range t.Symbols() {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}
