package domain

// Outcome describes what a single call to Step did.
type Outcome int

const (
	// OutcomeStepped means one transition was fully applied.
	OutcomeStepped Outcome = iota + 1
	// OutcomeHalted means the machine was already in Accept or Reject and
	// nothing changed.
	OutcomeHalted
	// OutcomeFaulted means no transition could be selected; nothing changed.
	OutcomeFaulted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStepped:
		return "stepped"
	case OutcomeHalted:
		return "halted"
	case OutcomeFaulted:
		return "faulted"
	}
	return "unknown"
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Snapshot is the read model a presentation layer polls after each step.
// Cells holds the tape from Origin onwards and always covers the head.
type Snapshot struct {
	State  StateID  `json:"state"`
	Label  string   `json:"label"`
	Head   int      `json:"head"`
	Steps  int      `json:"steps"`
	Halted bool     `json:"halted"`
	Origin int      `json:"origin"`
	Cells  []Symbol `json:"cells"`
}

// Read returns the symbol at an absolute tape position.
func (s Snapshot) Read(pos int) Symbol {
	i := pos - s.Origin
	if i < 0 || i >= len(s.Cells) {
		return Blank
	}
	return s.Cells[i]
}

// HeadOffset is the index of the head within Cells.
func (s Snapshot) HeadOffset() int {
	return s.Head - s.Origin
}

// Accepted reports whether the run ended in Accept.
func (s Snapshot) Accepted() bool {
	return s.State.Kind() == KindAccept
}

// Rejected reports whether the run ended in Reject.
func (s Snapshot) Rejected() bool {
	return s.State.Kind() == KindReject
}
