package ports

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunMachineContract runs a suite of tests to verify that an EditableMachine
// implementation adheres to the step/reset/halt contract.
// newMachine must return a fresh machine over the given alphabet on every call.
func RunMachineContract(t *testing.T, newMachine func(domain.Alphabet) EditableMachine) {
	ctx := context.Background()
	alphabet := domain.NewAlphabet('1')

	unary := func(t *testing.T) EditableMachine {
		m := newMachine(alphabet)
		m.AddState("s0", domain.TransitionMap{
			'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
			domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
		})
		m.SetTape([]domain.Symbol{'1', '1', domain.Blank})
		return m
	}

	t.Run("Runs To Accept", func(t *testing.T) {
		m := unary(t)

		for i := 1; i <= 3; i++ {
			outcome, err := m.Step(ctx)
			require.NoError(t, err, "step %d", i)
			assert.Equal(t, domain.OutcomeStepped, outcome, "step %d", i)
			assert.Equal(t, i, m.Snapshot().Head, "step %d", i)
		}

		snap := m.Snapshot()
		assert.True(t, m.IsHalted())
		assert.True(t, snap.Accepted())
		assert.Equal(t, domain.Symbol('1'), snap.Read(2))
	})

	t.Run("Halted Step Is A No-Op", func(t *testing.T) {
		m := unary(t)
		for !m.IsHalted() {
			_, err := m.Step(ctx)
			require.NoError(t, err)
		}
		before := m.Snapshot()

		outcome, err := m.Step(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeHalted, outcome)
		assert.Equal(t, before, m.Snapshot())
	})

	t.Run("Reset Preserves Tape", func(t *testing.T) {
		m := unary(t)
		for !m.IsHalted() {
			_, err := m.Step(ctx)
			require.NoError(t, err)
		}
		cells := m.Snapshot().Cells

		m.Reset()

		snap := m.Snapshot()
		assert.Equal(t, domain.Running(0), snap.State)
		assert.Equal(t, 0, snap.Head)
		assert.False(t, m.IsHalted())
		assert.Equal(t, cells, snap.Cells)
	})

	t.Run("Undefined Transition Is A Configuration Error", func(t *testing.T) {
		m := newMachine(alphabet)
		m.AddState("s0", domain.TransitionMap{
			'1': {Write: '1', Move: domain.Right, Next: domain.Running(0)},
		})
		m.SetTape([]domain.Symbol{domain.Blank})
		before := m.Snapshot()

		outcome, err := m.Step(ctx)
		assert.Equal(t, domain.OutcomeFaulted, outcome)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorIs(t, err, domain.ErrUndefinedTransition)
		assert.Equal(t, before, m.Snapshot(), "a faulted step has no effect")
	})
}
