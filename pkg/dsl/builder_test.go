package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_UnaryIncrement(t *testing.T) {
	b := New("1")
	b.State("scan").
		Keep('1', domain.Right, "scan").
		On(domain.Blank, '1', domain.Right, Accept)

	engine, err := b.Tape("11").Build()
	require.NoError(t, err)

	for !engine.IsHalted() {
		_, err := engine.Step(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, domain.Accept, engine.Current())
	assert.Equal(t, 3, engine.Steps())
	assert.Equal(t, domain.Symbol('1'), engine.ReadCell(2))
}

func TestBuilder_ForwardReferences(t *testing.T) {
	b := New("01")
	b.State("start").Keep('0', domain.Right, "second")
	b.State("second").Keep('0', domain.Left, Reject)
	b.State("start").Keep('1', domain.Right, "start")

	engine, err := b.Build()
	require.NoError(t, err)

	states := engine.States()
	require.Len(t, states, 2)
	assert.Equal(t, "start", states[0].Name)
	assert.Equal(t, domain.Running(1), states[0].Transitions['0'].Next)
	assert.Equal(t, domain.Running(0), states[0].Transitions['1'].Next)
	assert.Equal(t, domain.Reject, states[1].Transitions['0'].Next)
}

func TestBuilder_Errors(t *testing.T) {
	b := New("01")
	b.State("start").
		Keep('0', domain.Right, "missing").
		Keep('2', domain.Right, Accept)

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownState)
	assert.Contains(t, err.Error(), "symbol outside alphabet")
}

func TestBuilder_LaterRuleWins(t *testing.T) {
	b := New("1")
	b.State("s").
		Keep('1', domain.Right, Reject).
		Keep('1', domain.Left, Accept)

	engine, err := b.Build()
	require.NoError(t, err)
	got := engine.States()[0].Transitions['1']
	assert.Equal(t, domain.Left, got.Move)
	assert.Equal(t, domain.Accept, got.Next)
}
