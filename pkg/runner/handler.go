package runner

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Handler presents a machine snapshot after each applied step.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type Handler interface {
	Render(ctx context.Context, snap domain.Snapshot) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, snap domain.Snapshot) error

func (f HandlerFunc) Render(ctx context.Context, snap domain.Snapshot) error {
	return f(ctx, snap)
}

// Handlers fans a snapshot out to several handlers, stopping at the first error.
func Handlers(hs ...Handler) Handler {
	return HandlerFunc(func(ctx context.Context, snap domain.Snapshot) error {
		for _, h := range hs {
			if h == nil {
				continue
			}
			if err := h.Render(ctx, snap); err != nil {
				return err
			}
		}
		return nil
	})
}
