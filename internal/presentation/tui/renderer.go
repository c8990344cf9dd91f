package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// Renderer draws snapshots for a terminal with the given color profile.
// With termenv.Ascii the output is plain text.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer creates a renderer for profile.
func NewRenderer(profile termenv.Profile) *Renderer {
	return &Renderer{profile: profile}
}

// NewAutoRenderer detects the profile of stdout.
func NewAutoRenderer() *Renderer {
	return NewRenderer(termenv.ColorProfile())
}

// Tape renders one three-column slot per cell; the head slot is bracketed.
func (r *Renderer) Tape(snap domain.Snapshot) string {
	var sb strings.Builder
	for i, s := range snap.Cells {
		if i == snap.HeadOffset() {
			sb.WriteString(r.style("["+s.String()+"]", func(st termenv.Style) termenv.Style {
				return st.Reverse().Bold()
			}))
			continue
		}
		sb.WriteString(" " + s.String() + " ")
	}
	return sb.String()
}

// Status renders the state label, head position and step count.
func (r *Renderer) Status(snap domain.Snapshot) string {
	label := snap.Label
	switch {
	case snap.Accepted():
		label = r.style(label, func(st termenv.Style) termenv.Style {
			return st.Foreground(r.profile.Color("#22c55e")).Bold()
		})
	case snap.Rejected():
		label = r.style(label, func(st termenv.Style) termenv.Style {
			return st.Foreground(r.profile.Color("#ef4444")).Bold()
		})
	}
	return fmt.Sprintf("state: %s  head: %d  steps: %d", label, snap.Head, snap.Steps)
}

// Snapshot renders the tape followed by the status line.
func (r *Renderer) Snapshot(snap domain.Snapshot) string {
	return r.Tape(snap) + "\n" + r.Status(snap)
}

func (r *Renderer) style(s string, apply func(termenv.Style) termenv.Style) string {
	if r.profile == termenv.Ascii {
		return s
	}
	return apply(r.profile.String(s)).String()
}
