package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Formatter turns a snapshot into display text.
type Formatter func(domain.Snapshot) string

// TextHandler writes one formatted block per snapshot.
type TextHandler struct {
	Writer io.Writer
	Format Formatter

	mu sync.Mutex
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithFormatter replaces the plain default layout, e.g. with the TUI renderer.
func WithFormatter(f Formatter) TextHandlerOption {
	return func(h *TextHandler) {
		if f != nil {
			h.Format = f
		}
	}
}

// NewTextHandler creates a handler writing to w (stdout when nil).
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{Writer: w, Format: PlainFormat}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Render(ctx context.Context, snap domain.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := h.Format(snap)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(h.Writer, out)
	return err
}

// PlainFormat prints the tape window with the head cell bracketed, followed
// by the status line.
func PlainFormat(snap domain.Snapshot) string {
	var sb strings.Builder
	for i, s := range snap.Cells {
		if i == snap.HeadOffset() {
			fmt.Fprintf(&sb, "[%s]", s)
		} else {
			fmt.Fprintf(&sb, " %s ", s)
		}
	}
	fmt.Fprintf(&sb, "\nstate: %s  head: %d  steps: %d", snap.Label, snap.Head, snap.Steps)
	return sb.String()
}
