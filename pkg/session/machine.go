package session

import (
	"context"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// lockedMachine is the ports.Machine view a background run drives.
// Each call takes the session lock for its own duration only.
type lockedMachine struct {
	manager *Manager
	id      string
}

var _ ports.Machine = (*lockedMachine)(nil)

func (l *lockedMachine) Step(ctx context.Context) (domain.Outcome, error) {
	var outcome domain.Outcome
	var stepErr error
	// The run context only signals stop; a tick that started must finish.
	err := l.manager.WithLock(context.WithoutCancel(ctx), l.id, func(e *turing.Engine) error {
		outcome, stepErr = e.Step(ctx)
		return nil
	})
	if err != nil {
		return domain.OutcomeFaulted, err
	}
	return outcome, stepErr
}

func (l *lockedMachine) Snapshot() domain.Snapshot {
	var snap domain.Snapshot
	_ = l.manager.WithLock(context.Background(), l.id, func(e *turing.Engine) error {
		snap = e.Snapshot()
		return nil
	})
	return snap
}

func (l *lockedMachine) IsHalted() bool {
	halted := false
	_ = l.manager.WithLock(context.Background(), l.id, func(e *turing.Engine) error {
		halted = e.IsHalted()
		return nil
	})
	return halted
}
