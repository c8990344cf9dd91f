package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/google/uuid"
)

// ErrAlreadyRunning is returned by Start when the machine already has a background run.
var ErrAlreadyRunning = errors.New("machine is already running")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type session struct {
	id      string
	name    string
	created time.Time
	engine  *turing.Engine

	cancel  context.CancelFunc
	done    chan struct{}
	lastRun *runner.Result
	lastErr error
}

// Info describes a session without exposing its engine.
type Info struct {
	ID      string         `json:"id"`
	Name    string         `json:"name,omitempty"`
	Created time.Time      `json:"created"`
	Running bool           `json:"running"`
	LastRun *runner.Result `json:"last_run,omitempty"`
	LastErr string         `json:"last_error,omitempty"`
}

// Manager orchestrates machine access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	mu       sync.Mutex            // Global lock for both maps
	sessions map[string]*session   // Live machines
	locks    map[string]*lockEntry // Map of active locks

	engineOpts []turing.Option
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the engines it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEngineOptions appends options applied to every engine the Manager creates,
// e.g. turing.WithLifecycleHooks for metrics.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*session),
		locks:    make(map[string]*lockEntry),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new machine over alphabet and returns its ID.
// The name labels the machine in logs; it defaults to the ID.
func (m *Manager) Create(alphabet domain.Alphabet, name string) string {
	id, _ := m.CreateWith(name, func(opts ...turing.Option) (*turing.Engine, error) {
		return turing.New(alphabet, opts...), nil
	})
	return id
}

// CreateWith registers the machine returned by build, e.g. a registry entry.
// build receives the engine options the Manager applies to every machine.
func (m *Manager) CreateWith(name string, build func(opts ...turing.Option) (*turing.Engine, error)) (string, error) {
	id := uuid.NewString()
	label := name
	if label == "" {
		label = id
	}

	opts := append([]turing.Option{
		turing.WithName(label),
		turing.WithLogger(m.logger.With("session_id", id)),
	}, m.engineOpts...)

	engine, err := build(opts...)
	if err != nil {
		return "", err
	}

	s := &session{
		id:      id,
		name:    name,
		created: time.Now(),
		engine:  engine,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session_id", id, "name", name)
	return id, nil
}

// Get returns the session description.
func (m *Manager) Get(id string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	info := Info{
		ID:      s.id,
		Name:    s.name,
		Created: s.created,
		Running: s.cancel != nil,
		LastRun: s.lastRun,
	}
	if s.lastErr != nil {
		info.LastErr = s.lastErr.Error()
	}
	return info, nil
}

// List returns the IDs of all live sessions, oldest first.
func (m *Manager) List() []string {
	m.mu.Lock()
	all := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	slices.SortFunc(all, func(a, b *session) int {
		if c := a.created.Compare(b.created); c != 0 {
			return c
		}
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})

	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.id
	}
	return ids
}

// Delete stops any background run and removes the session.
// It waits for an in-flight WithLock call on the same session to finish.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.Stop(id); err != nil {
		return err
	}
	return m.WithLock(ctx, id, func(*turing.Engine) error {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		m.logger.Debug("session deleted", "session_id", id)
		return nil
	})
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) lookup(id string) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// WithLock executes fn while holding the lock for the session.
// fn must not call Stop or Delete for the same session.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(*turing.Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	// Checked under the lock so a concurrent Delete is observed.
	s, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return fn(s.engine)
}

// Start launches a background run of the session's machine.
// observer, if not nil, receives a snapshot after every applied step.
// The run ends on halt, configuration error, step limit or Stop.
func (m *Manager) Start(id string, interval time.Duration, maxSteps int, observer runner.Handler) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if s.cancel != nil {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	m.mu.Unlock()

	r := runner.NewRunner(
		runner.WithInterval(interval),
		runner.WithMaxSteps(maxSteps),
		runner.WithHandler(observer),
		runner.WithLogger(m.logger.With("session_id", id)),
	)

	go func() {
		defer close(done)
		defer cancel()

		res, err := r.Run(ctx, &lockedMachine{manager: m, id: id})

		m.mu.Lock()
		s.cancel, s.done = nil, nil
		s.lastRun, s.lastErr = &res, err
		m.mu.Unlock()

		if err != nil {
			m.logger.Warn("run ended with error", "session_id", id, "reason", res.Reason.String(), "err", err)
			return
		}
		m.logger.Info("run ended", "session_id", id, "reason", res.Reason.String(), "steps", res.Steps)
	}()

	m.logger.Debug("run started", "session_id", id, "interval", r.Interval, "max_steps", maxSteps)
	return nil
}

// Stop cancels a background run and waits for it to return.
// The tick in progress, if any, completes first. Stopping an idle session is a no-op.
func (m *Manager) Stop(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	cancel, done := s.cancel, s.done
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Running reports whether the session has a background run.
func (m *Manager) Running(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return ok && s.cancel != nil
}

// Close stops every background run.
func (m *Manager) Close() {
	for _, id := range m.List() {
		_ = m.Stop(id)
	}
}
