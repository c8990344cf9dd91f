package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks logs every lifecycle event to logger.
// Steps are logged at Debug, halts at Info and faults at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"machine", e.Machine,
				"from", e.From.String(),
				"to", e.To.String(),
				"read", e.Read.String(),
				"write", e.Write.String(),
				"move", e.Move.String(),
				"head", e.Head,
			)
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			logger.InfoContext(ctx, "halt", "machine", e.Machine, "state", e.State.String(), "steps", e.Steps)
		},
		OnFault: func(ctx context.Context, e *domain.FaultEvent) {
			logger.WarnContext(ctx, "fault", "machine", e.Machine, "err", e.Err)
		},
	}
}
