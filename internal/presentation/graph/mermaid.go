package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Overlay contains run state to visualize on the diagram.
type Overlay struct {
	Current domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart of the state diagram.
// It applies semantic styling:
// - First state: ((Circle))
// - Accept / Reject: (Rounded)
// - Default: [Rectangle]
// Edges are labelled read/write,move. Transitions sharing a target are
// merged into one edge. The current state is highlighted if overlay is given.
func GenerateMermaid(states []domain.State, alphabet domain.Alphabet, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	usesAccept, usesReject := false, false
	for i, st := range states {
		opener, closer := "[", "]"
		if i == 0 {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", nodeID(domain.Running(i)), opener, escapeLabel(st.Name), closer))

		// Group labels by target, in alphabet order.
		labels := make(map[string][]string)
		var targets []string
		for _, sym := range alphabet.Symbols() {
			t, ok := st.Transitions[sym]
			if !ok {
				continue
			}
			switch t.Next.Kind() {
			case domain.KindAccept:
				usesAccept = true
			case domain.KindReject:
				usesReject = true
			}
			to := nodeID(t.Next)
			if _, seen := labels[to]; !seen {
				targets = append(targets, to)
			}
			labels[to] = append(labels[to], fmt.Sprintf("%s/%s,%s", sym, t.Write, t.Move))
		}
		sort.Strings(targets)
		for _, to := range targets {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", nodeID(domain.Running(i)), escapeLabel(strings.Join(labels[to], " ")), to))
		}
	}

	if usesAccept {
		sb.WriteString("    yes(\"yes\")\n")
	}
	if usesReject {
		sb.WriteString("    no(\"no\")\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Current)))
	}

	return sb.String()
}

func nodeID(id domain.StateID) string {
	if i, ok := id.Index(); ok {
		return "s" + strconv.Itoa(i)
	}
	return id.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
