package tui

import (
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// TransitionTable renders the machine definition as a Markdown table:
// one row per state, one column per alphabet symbol. Each cell reads
// write,move,next; "-" marks an undefined transition.
func TransitionTable(states []domain.State, alphabet domain.Alphabet) string {
	symbols := alphabet.Symbols()

	var sb strings.Builder
	sb.WriteString("| # | state |")
	for _, s := range symbols {
		sb.WriteString(" " + escapeCell(s.String()) + " |")
	}
	sb.WriteString("\n|---|---|")
	for range symbols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for i, st := range states {
		sb.WriteString("| " + strconv.Itoa(i) + " | " + escapeCell(st.Name) + " |")
		for _, s := range symbols {
			cell := "-"
			if t, ok := st.Transitions[s]; ok {
				cell = t.Write.String() + "," + t.Move.String() + "," + NextLabel(states, t.Next)
			}
			sb.WriteString(" " + escapeCell(cell) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NextLabel names a transition target: the state name, yes/no, or #n for
// an index with no state behind it yet.
func NextLabel(states []domain.State, id domain.StateID) string {
	idx, ok := id.Index()
	if !ok {
		return id.String()
	}
	if idx >= 0 && idx < len(states) {
		return states[idx].Name
	}
	return "#" + strconv.Itoa(idx)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// NewMarkdownRenderer returns a function that renders markdown using glamour.
// Plain output ("notty" style) is used when styled is false.
func NewMarkdownRenderer(styled bool) (func(string) (string, error), error) {
	opt := glamour.WithStandardStyle("notty")
	if styled {
		opt = glamour.WithAutoStyle() // Automatically detect light/dark background
	}
	r, err := glamour.NewTermRenderer(opt)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
