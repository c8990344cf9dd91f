package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnaryEngine(opts ...runtime.EngineOption) *runtime.Engine {
	engine := runtime.NewEngine(domain.NewAlphabet('1'), opts...)
	engine.AddState("s0", domain.TransitionMap{
		'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
		domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
	})
	engine.SetTape([]domain.Symbol{'1', '1', domain.Blank})
	return engine
}

func TestEngine_Contract(t *testing.T) {
	ports.RunMachineContract(t, func(a domain.Alphabet) ports.EditableMachine {
		return runtime.NewEngine(a)
	})
}

func TestEngine_UnaryIncrement(t *testing.T) {
	ctx := context.Background()
	engine := newUnaryEngine()

	steps := []struct {
		head  int
		state domain.StateID
	}{
		{head: 1, state: domain.Running(0)},
		{head: 2, state: domain.Running(0)},
		{head: 3, state: domain.Accept},
	}

	for i, want := range steps {
		outcome, err := engine.Step(ctx)
		require.NoError(t, err, "step %d", i+1)
		assert.Equal(t, domain.OutcomeStepped, outcome)
		assert.Equal(t, want.head, engine.Head(), "step %d head", i+1)
		assert.Equal(t, want.state, engine.Current(), "step %d state", i+1)
	}

	assert.Equal(t, []domain.Symbol{'1', '1', '1'}, engine.Tape().Symbols())
	assert.True(t, engine.IsHalted())
	assert.Equal(t, 3, engine.Steps())

	for range 3 {
		outcome, err := engine.Step(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeHalted, outcome)
	}
	assert.Equal(t, 3, engine.Head())
	assert.Equal(t, 3, engine.Steps())
	assert.Equal(t, "yes", engine.Snapshot().Label)
}

func TestEngine_ReadCell(t *testing.T) {
	engine := runtime.NewEngine(domain.NewAlphabet('a', 'b'))
	engine.SetTape([]domain.Symbol{'a', 'b', domain.Blank})

	assert.Equal(t, domain.Symbol('a'), engine.ReadCell(0))
	assert.Equal(t, domain.Symbol('b'), engine.ReadCell(1))
	assert.Equal(t, domain.Blank, engine.ReadCell(2))
	assert.Equal(t, domain.Blank, engine.ReadCell(-1))
	assert.Equal(t, domain.Blank, engine.ReadCell(99))
	assert.Equal(t, domain.Symbol('a'), engine.Read(), "Read defaults to the head")
}

func TestEngine_LeftBelowOrigin(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(domain.NewAlphabet('x'))
	engine.AddState("left", domain.TransitionMap{
		'x':          {Write: 'x', Move: domain.Left, Next: domain.Running(1)},
		domain.Blank: {Write: 'x', Move: domain.Left, Next: domain.Running(1)},
	})
	engine.AddState("write", domain.TransitionMap{
		domain.Blank: {Write: 'x', Move: domain.Right, Next: domain.Accept},
	})
	engine.SetTape([]domain.Symbol{'x', domain.Blank})

	_, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1, engine.Head())
	assert.Equal(t, domain.Blank, engine.ReadCell(-1))

	_, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Symbol('x'), engine.ReadCell(-1))
	assert.Equal(t, domain.Symbol('x'), engine.ReadCell(0))
	assert.Equal(t, 0, engine.Head())

	snap := engine.Snapshot()
	assert.Equal(t, -1, snap.Origin)
	assert.Equal(t, []domain.Symbol{'x', 'x', domain.Blank}, snap.Cells)
}

func TestEngine_ResetPreservesTape(t *testing.T) {
	ctx := context.Background()
	engine := newUnaryEngine()
	for !engine.IsHalted() {
		_, err := engine.Step(ctx)
		require.NoError(t, err)
	}

	engine.Reset()

	assert.Equal(t, domain.Running(0), engine.Current())
	assert.Equal(t, 0, engine.Head())
	assert.Equal(t, 0, engine.Steps())
	assert.Equal(t, []domain.Symbol{'1', '1', '1'}, engine.Tape().Symbols())

	// Rerunning continues over what is written now: one more 1 is appended.
	for !engine.IsHalted() {
		_, err := engine.Step(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []domain.Symbol{'1', '1', '1', '1'}, engine.Tape().Symbols())
}

func TestEngine_Determinism(t *testing.T) {
	ctx := context.Background()
	trace := func() []domain.Snapshot {
		engine := newUnaryEngine()
		var out []domain.Snapshot
		for !engine.IsHalted() {
			_, err := engine.Step(ctx)
			require.NoError(t, err)
			out = append(out, engine.Snapshot())
		}
		return out
	}

	first := trace()
	for range 5 {
		assert.Equal(t, first, trace())
	}
}

func TestEngine_SetTapeRoundTrip(t *testing.T) {
	engine := runtime.NewEngine(domain.NewAlphabet('0', '1'))
	input := []domain.Symbol{'0', '1', '1', '0', domain.Blank}

	engine.SetTape(input)

	for i, s := range input {
		assert.Equal(t, s, engine.ReadCell(i))
	}
}

func TestEngine_AddState(t *testing.T) {
	engine := runtime.NewEngine(domain.NewAlphabet('a'))

	assert.Equal(t, domain.Running(0), engine.AddState("first", nil))
	assert.Equal(t, domain.Running(1), engine.AddState("", nil))

	states := engine.States()
	require.Len(t, states, 2)
	assert.Equal(t, "first", states[0].Name)
	assert.Equal(t, "state1", states[1].Name)

	// The caller's map is copied on insertion.
	transitions := domain.TransitionMap{'a': {Write: 'a', Next: domain.Accept}}
	id := engine.AddState("copy", transitions)
	delete(transitions, 'a')
	idx, _ := id.Index()
	assert.Contains(t, engine.States()[idx].Transitions, domain.Symbol('a'))
}

func TestEngine_EditsMidRun(t *testing.T) {
	ctx := context.Background()
	engine := newUnaryEngine()

	_, err := engine.Step(ctx)
	require.NoError(t, err)

	// Redirect the 1-transition straight to reject while the run is in flight.
	require.NoError(t, engine.SetTransition(0, '1', domain.Transition{Write: '0', Move: domain.Right, Next: domain.Reject}))
	engine.AddState("unused", nil)
	assert.Equal(t, domain.Running(0), engine.Current(), "edits do not change the current state")

	_, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Reject, engine.Current())
	assert.Equal(t, domain.Symbol('0'), engine.ReadCell(1))
	assert.Equal(t, "no", engine.Snapshot().Label)
}

func TestEngine_RenameAndAlphabet(t *testing.T) {
	engine := newUnaryEngine()

	require.NoError(t, engine.RenameState(0, "scan"))
	assert.Equal(t, "scan", engine.Snapshot().Label)
	assert.ErrorIs(t, engine.RenameState(4, "x"), domain.ErrUnknownState)
	assert.ErrorIs(t, engine.SetTransition(-1, '1', domain.Transition{}), domain.ErrUnknownState)
	assert.ErrorIs(t, engine.ClearTransition(1, '1'), domain.ErrUnknownState)

	engine.SetAlphabet(domain.NewAlphabet('1', '0'))
	assert.Equal(t, "10", engine.Alphabet().String())
	assert.Len(t, engine.States()[0].Transitions, 2, "alphabet changes keep existing transitions")
}

func TestEngine_SnapshotCoversHead(t *testing.T) {
	engine := runtime.NewEngine(domain.NewAlphabet('1'))

	snap := engine.Snapshot()
	assert.Equal(t, 0, snap.Origin)
	assert.Equal(t, []domain.Symbol{domain.Blank}, snap.Cells)
	assert.Equal(t, 0, snap.HeadOffset())
	assert.Equal(t, "#0", snap.Label, "no states defined yet")
}
