package registry

import (
	"context"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runToHalt(t *testing.T, e *turing.Engine) {
	t.Helper()
	for i := 0; !e.IsHalted(); i++ {
		require.Less(t, i, 10000, "machine did not halt")
		_, err := e.Step(context.Background())
		require.NoError(t, err)
	}
}

func TestLibrary(t *testing.T) {
	tests := []struct {
		name  string
		tape  string
		want  domain.StateID
		cells string
	}{
		{name: "unary-increment", want: domain.Accept, cells: "1111"},
		{name: "binary-increment", want: domain.Accept, cells: "1100"},
		{name: "binary-increment", tape: "111", want: domain.Accept, cells: "1000"},
		{name: "even-ones", want: domain.Accept},
		{name: "even-ones", tape: "0111", want: domain.Reject},
		{name: "palindrome", want: domain.Accept},
		{name: "palindrome", tape: "aba", want: domain.Accept},
		{name: "palindrome", tape: "", want: domain.Accept},
		{name: "palindrome", tape: "ab", want: domain.Reject},
		{name: "palindrome", tape: "abab", want: domain.Reject},
	}

	reg := Default()
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.tape, func(t *testing.T) {
			e, err := reg.Build(tt.name)
			require.NoError(t, err)
			if tt.tape != "" || tt.name == "palindrome" {
				symbols := []domain.Symbol{}
				for _, r := range tt.tape {
					symbols = append(symbols, domain.Symbol(r))
				}
				e.SetTape(symbols)
			}

			runToHalt(t, e)
			assert.Equal(t, tt.want, e.Current())
			if tt.cells != "" {
				var got []rune
				snap := e.Snapshot()
				for _, s := range snap.Cells {
					if s != domain.Blank {
						got = append(got, rune(s))
					}
				}
				assert.Equal(t, tt.cells, string(got))
			}
		})
	}
}

func TestRegistry_BuildErrors(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Build("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	reg.Register("broken", "refers to a missing state", func() *dsl.Builder {
		b := dsl.New("1")
		b.State("s").Keep('1', domain.Right, "ghost")
		return b
	})
	_, err = reg.Build("broken")
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestRegistry_ListAndIsolation(t *testing.T) {
	reg := Default()
	names := []string{}
	for _, e := range reg.List() {
		names = append(names, e.Name)
		assert.NotEmpty(t, e.Description)
	}
	assert.Equal(t, []string{"binary-increment", "even-ones", "palindrome", "unary-increment"}, names)

	a, err := reg.Build("unary-increment", turing.WithName("a"))
	require.NoError(t, err)
	b, err := reg.Build("unary-increment")
	require.NoError(t, err)
	runToHalt(t, a)
	assert.Equal(t, 0, b.Steps(), "each build is independent")
	assert.Equal(t, "a", a.Name())
}
