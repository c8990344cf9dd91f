package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUnary(t *testing.T, mgr *session.Manager) string {
	t.Helper()
	id := mgr.Create(domain.NewAlphabet('1'), "unary")
	err := mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		e.AddState("scan", domain.TransitionMap{
			'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
			domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
		})
		e.SetTape([]domain.Symbol{'1', '1', domain.Blank})
		return nil
	})
	require.NoError(t, err)
	return id
}

func setupLoop(t *testing.T, mgr *session.Manager) string {
	t.Helper()
	id := mgr.Create(domain.NewAlphabet(), "loop")
	err := mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		e.AddState("walk", domain.TransitionMap{
			domain.Blank: {Write: domain.Blank, Move: domain.Right, Next: domain.Running(0)},
		})
		return nil
	})
	require.NoError(t, err)
	return id
}

func TestManager_CRUD(t *testing.T) {
	mgr := session.NewManager()
	ctx := context.Background()

	a := mgr.Create(domain.NewAlphabet('a'), "first")
	b := mgr.Create(domain.NewAlphabet('b'), "")
	assert.NotEqual(t, a, b)
	assert.ElementsMatch(t, []string{a, b}, mgr.List())

	info, err := mgr.Get(a)
	require.NoError(t, err)
	assert.Equal(t, "first", info.Name)
	assert.False(t, info.Running)

	require.NoError(t, mgr.Delete(ctx, a))
	assert.Equal(t, []string{b}, mgr.List())

	_, err = mgr.Get(a)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, mgr.Delete(ctx, a), domain.ErrSessionNotFound)
	assert.ErrorIs(t, mgr.WithLock(ctx, a, func(*turing.Engine) error { return nil }), domain.ErrSessionNotFound)
	assert.ErrorIs(t, mgr.Start(a, time.Millisecond, 0, nil), domain.ErrSessionNotFound)
}

func TestManager_WithLockSerializes(t *testing.T) {
	mgr := session.NewManager()
	id := mgr.Create(domain.NewAlphabet(), "")
	ctx := context.Background()

	var inside int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, id, func(e *turing.Engine) error {
				if atomic.AddInt32(&inside, 1) != 1 {
					t.Error("concurrent access inside WithLock")
				}
				e.AddState("", nil)
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	err := mgr.WithLock(ctx, id, func(e *turing.Engine) error {
		assert.Len(t, e.States(), 50)
		return nil
	})
	require.NoError(t, err)
}

func TestManager_WithLockCancelledContext(t *testing.T) {
	mgr := session.NewManager()
	id := mgr.Create(domain.NewAlphabet(), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := mgr.WithLock(ctx, id, func(*turing.Engine) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestManager_RunToHalt(t *testing.T) {
	mgr := session.NewManager()
	id := setupUnary(t, mgr)

	var mu sync.Mutex
	var seen []int
	observer := runner.HandlerFunc(func(_ context.Context, snap domain.Snapshot) error {
		mu.Lock()
		seen = append(seen, snap.Head)
		mu.Unlock()
		return nil
	})

	require.NoError(t, mgr.Start(id, time.Millisecond, 0, observer))

	assert.Eventually(t, func() bool { return !mgr.Running(id) }, 2*time.Second, 5*time.Millisecond)

	info, err := mgr.Get(id)
	require.NoError(t, err)
	require.NotNil(t, info.LastRun)
	assert.Equal(t, runner.ReasonAccepted, info.LastRun.Reason)
	assert.Empty(t, info.LastErr)

	mu.Lock()
	assert.Equal(t, []int{1, 2, 3}, seen)
	mu.Unlock()
}

func TestManager_StartStop(t *testing.T) {
	mgr := session.NewManager()
	id := setupLoop(t, mgr)

	require.NoError(t, mgr.Start(id, time.Millisecond, 0, nil))
	assert.True(t, mgr.Running(id))
	assert.ErrorIs(t, mgr.Start(id, time.Millisecond, 0, nil), session.ErrAlreadyRunning)

	// Manual access interleaves with the run between ticks.
	err := mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		assert.False(t, e.IsHalted())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Stop(id))
	assert.False(t, mgr.Running(id))

	info, err := mgr.Get(id)
	require.NoError(t, err)
	require.NotNil(t, info.LastRun)
	assert.Equal(t, runner.ReasonStopped, info.LastRun.Reason)

	// No steps are applied after Stop returns.
	var steps int
	require.NoError(t, mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		steps = e.Steps()
		return nil
	}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		assert.Equal(t, steps, e.Steps())
		return nil
	}))

	assert.NoError(t, mgr.Stop(id), "stopping an idle machine is a no-op")
}

func TestManager_StepLimitAndFault(t *testing.T) {
	mgr := session.NewManager()

	loop := setupLoop(t, mgr)
	require.NoError(t, mgr.Start(loop, time.Millisecond, 4, nil))
	assert.Eventually(t, func() bool { return !mgr.Running(loop) }, 2*time.Second, 5*time.Millisecond)
	info, err := mgr.Get(loop)
	require.NoError(t, err)
	assert.Equal(t, runner.ReasonStepLimit, info.LastRun.Reason)
	assert.Equal(t, 4, info.LastRun.Steps)

	broken := mgr.Create(domain.NewAlphabet(), "broken")
	require.NoError(t, mgr.Start(broken, time.Millisecond, 0, nil))
	assert.Eventually(t, func() bool { return !mgr.Running(broken) }, 2*time.Second, 5*time.Millisecond)
	info, err = mgr.Get(broken)
	require.NoError(t, err)
	assert.Equal(t, runner.ReasonFaulted, info.LastRun.Reason)
	assert.Contains(t, info.LastErr, "unknown state")
}

func TestManager_DeleteRunning(t *testing.T) {
	mgr := session.NewManager()
	id := setupLoop(t, mgr)
	require.NoError(t, mgr.Start(id, time.Millisecond, 0, nil))

	require.NoError(t, mgr.Delete(t.Context(), id))

	assert.False(t, mgr.Running(id))
	assert.Empty(t, mgr.List())
}

func TestManager_EngineOptions(t *testing.T) {
	var halts int32
	mgr := session.NewManager(session.WithEngineOptions(turing.WithLifecycleHooks(domain.LifecycleHooks{
		OnHalt: func(context.Context, *domain.HaltEvent) { atomic.AddInt32(&halts, 1) },
	})))
	id := setupUnary(t, mgr)

	err := mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		for !e.IsHalted() {
			if _, err := e.Step(t.Context()); err != nil {
				return err
			}
		}
		assert.Equal(t, "unary", e.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&halts))
}

func TestManager_Close(t *testing.T) {
	mgr := session.NewManager()
	a := setupLoop(t, mgr)
	b := setupLoop(t, mgr)
	require.NoError(t, mgr.Start(a, time.Millisecond, 0, nil))
	require.NoError(t, mgr.Start(b, time.Millisecond, 0, nil))

	mgr.Close()

	assert.False(t, mgr.Running(a))
	assert.False(t, mgr.Running(b))
}

func TestManager_CreateWith(t *testing.T) {
	mgr := session.NewManager()

	id, err := mgr.CreateWith("lib", func(opts ...turing.Option) (*turing.Engine, error) {
		return dsl.New("1").Tape("1").Build(opts...)
	})
	require.NoError(t, err)
	require.NoError(t, mgr.WithLock(t.Context(), id, func(e *turing.Engine) error {
		assert.Equal(t, "lib", e.Name())
		assert.Equal(t, domain.Symbol('1'), e.Read())
		return nil
	}))

	boom := errors.New("boom")
	_, err = mgr.CreateWith("bad", func(opts ...turing.Option) (*turing.Engine, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, mgr.List(), 1)
}
