package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateID_Variants(t *testing.T) {
	var zero domain.StateID
	idx, ok := zero.Index()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.False(t, zero.IsHalted())
	assert.Equal(t, domain.Running(0), zero)

	_, ok = domain.Accept.Index()
	assert.False(t, ok)
	assert.True(t, domain.Accept.IsHalted())
	assert.True(t, domain.Reject.IsHalted())
	assert.NotEqual(t, domain.Accept, domain.Reject)
	assert.Equal(t, "yes", domain.Accept.String())
	assert.Equal(t, "no", domain.Reject.String())
}

func TestParseStateID(t *testing.T) {
	cases := map[string]domain.StateID{
		"0":      domain.Running(0),
		"12":     domain.Running(12),
		"yes":    domain.Accept,
		"Accept": domain.Accept,
		"y":      domain.Accept,
		"no":     domain.Reject,
		"reject": domain.Reject,
	}
	for in, want := range cases {
		got, err := domain.ParseStateID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseStateID("-1")
	assert.Error(t, err)
	_, err = domain.ParseStateID("maybe")
	assert.Error(t, err)
}

func TestStateID_JSON(t *testing.T) {
	data, err := json.Marshal([]domain.StateID{domain.Running(2), domain.Accept, domain.Reject})
	require.NoError(t, err)
	assert.JSONEq(t, `[2,"yes","no"]`, string(data))

	var ids []domain.StateID
	require.NoError(t, json.Unmarshal([]byte(`[3,"accept","n"]`), &ids))
	assert.Equal(t, []domain.StateID{domain.Running(3), domain.Accept, domain.Reject}, ids)

	var id domain.StateID
	assert.Error(t, json.Unmarshal([]byte(`-4`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestTransitionMap_JSON(t *testing.T) {
	m := domain.TransitionMap{
		'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
		domain.Blank: {Write: '1', Move: domain.Left, Next: domain.Accept},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"1": {"write": "1", "move": "R", "next": 0},
		"□": {"write": "1", "move": "L", "next": "yes"}
	}`, string(data))

	var decoded domain.TransitionMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m, decoded)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, -1, domain.Left.Delta())
	assert.Equal(t, 1, domain.Right.Delta())

	for _, in := range []string{"l", "L", "left", " Left "} {
		d, err := domain.ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, domain.Left, d)
	}
	_, err := domain.ParseDirection("up")
	assert.Error(t, err)
}

func TestDefaultTransitions(t *testing.T) {
	alphabet := domain.NewAlphabet('a', 'b')
	m := domain.DefaultTransitions(alphabet)

	assert.Len(t, m, 3)
	for _, s := range alphabet.Symbols() {
		assert.Equal(t, domain.Transition{Write: s, Move: domain.Right, Next: domain.Reject}, m[s])
	}
	assert.Equal(t, "state3", domain.DefaultStateName(3))
}

func TestAlphabet(t *testing.T) {
	a := domain.NewAlphabet('1', '0', '1', domain.Blank)

	assert.Equal(t, []domain.Symbol{'1', '0', domain.Blank}, a.Symbols())
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Contains('0'))
	assert.True(t, a.Contains(domain.Blank))
	assert.False(t, a.Contains('2'))
	assert.Equal(t, "10", a.String())

	var zero domain.Alphabet
	assert.Equal(t, []domain.Symbol{domain.Blank}, zero.Symbols())
	assert.True(t, zero.Contains(domain.Blank))
}

func TestSymbol_Text(t *testing.T) {
	var s domain.Symbol
	require.NoError(t, s.UnmarshalText([]byte("é")))
	assert.Equal(t, domain.Symbol('é'), s)
	assert.Error(t, s.UnmarshalText([]byte("ab")))
	assert.Error(t, s.UnmarshalText(nil))
}

func TestConfigError(t *testing.T) {
	err := &domain.ConfigError{
		State:     domain.Running(0),
		StateName: "s0",
		Symbol:    domain.Blank,
		Err:       domain.ErrUndefinedTransition,
	}

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorIs(t, err, domain.ErrUndefinedTransition)
	assert.NotErrorIs(t, err, domain.ErrUnknownState)
	assert.Contains(t, err.Error(), "s0")
}
