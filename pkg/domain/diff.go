package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// Machine identifies the target session when streamed.
	Machine string `json:"machine,omitempty"`

	State  *StateID `json:"state,omitempty"`
	Label  *string  `json:"label,omitempty"`
	Head   *int     `json:"head,omitempty"`
	Steps  *int     `json:"steps,omitempty"`
	Halted *bool    `json:"halted,omitempty"`

	// Cells contains only positions whose symbol changed.
	Cells map[int]Symbol `json:"cells,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{}

	if oldSnap == nil || oldSnap.State != newSnap.State {
		diff.State = &newSnap.State
	}
	if oldSnap == nil || oldSnap.Label != newSnap.Label {
		diff.Label = &newSnap.Label
	}
	if oldSnap == nil || oldSnap.Head != newSnap.Head {
		diff.Head = &newSnap.Head
	}
	if oldSnap == nil || oldSnap.Steps != newSnap.Steps {
		diff.Steps = &newSnap.Steps
	}
	if oldSnap == nil {
		if newSnap.Halted {
			diff.Halted = &newSnap.Halted
		}
	} else if oldSnap.Halted != newSnap.Halted {
		diff.Halted = &newSnap.Halted
	}

	diff.Cells = diffCells(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffCells(oldSnap, newSnap *Snapshot) map[int]Symbol {
	delta := make(map[int]Symbol)

	if oldSnap == nil {
		for i, s := range newSnap.Cells {
			delta[newSnap.Origin+i] = s
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	lo := min(oldSnap.Origin, newSnap.Origin)
	hi := max(oldSnap.Origin+len(oldSnap.Cells), newSnap.Origin+len(newSnap.Cells)) - 1
	for pos := lo; pos <= hi; pos++ {
		if s := newSnap.Read(pos); s != oldSnap.Read(pos) {
			delta[pos] = s
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.State == nil &&
		d.Label == nil &&
		d.Head == nil &&
		d.Steps == nil &&
		d.Halted == nil &&
		len(d.Cells) == 0
}
