package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
)

type createRequest struct {
	Alphabet string `json:"alphabet"`
	Name     string `json:"name"`
	Example  string `json:"example,omitempty"`
}

type createResponse struct {
	ID       string          `json:"id"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type machineResponse struct {
	session.Info
	Alphabet domain.Alphabet `json:"alphabet"`
	States   []domain.State  `json:"states"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type alphabetRequest struct {
	Alphabet string `json:"alphabet"`
}

type stateRequest struct {
	Name        string               `json:"name"`
	Transitions domain.TransitionMap `json:"transitions,omitempty"`
}

type stateResponse struct {
	State    domain.StateID  `json:"state"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type transitionRequest struct {
	Write *domain.Symbol    `json:"write"`
	Move  *domain.Direction `json:"move"`
	Next  *domain.StateID   `json:"next"`
}

type tapeRequest struct {
	Tape string `json:"tape"`
}

type stepRequest struct {
	Count int `json:"count"`
}

type stepResponse struct {
	Outcome  domain.Outcome  `json:"outcome"`
	Applied  int             `json:"applied"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

type runRequest struct {
	IntervalMS int `json:"interval_ms"`
	MaxSteps   int `json:"max_steps"`
}

type snapshotResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

// CreateMachine handles POST /machines.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := decode(r, &body, true); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.create(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var snap domain.Snapshot
	var alphabet domain.Alphabet
	if err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		snap, alphabet = e.Snapshot(), e.Alphabet()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Publish(id, snap)

	s.logger.Info("machine created", "session_id", id, "example", body.Example, "alphabet", alphabet.String())
	s.writeJSON(w, http.StatusCreated, createResponse{ID: id, Snapshot: snap})
}

func (s *Server) create(body createRequest) (string, error) {
	if body.Example == "" {
		alphabet, err := runner.ParseAlphabet(body.Alphabet)
		if err != nil {
			return "", err
		}
		return s.Sessions.Create(alphabet, body.Name), nil
	}
	if body.Alphabet != "" {
		return "", fmt.Errorf("%w: alphabet and example are mutually exclusive", errBadRequest)
	}
	name := body.Name
	if name == "" {
		name = body.Example
	}
	return s.Sessions.CreateWith(name, func(opts ...turing.Option) (*turing.Engine, error) {
		return s.Library.Build(body.Example, opts...)
	})
}

// ListExamples handles GET /examples.
func (s *Server) ListExamples(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]registry.Entry{"examples": s.Library.List()})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"machines": s.Sessions.List()})
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, err := s.Sessions.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := machineResponse{Info: info}
	if err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		resp.Alphabet = e.Alphabet()
		resp.States = e.States()
		resp.Snapshot = e.Snapshot()
		return nil
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// DeleteMachine handles DELETE /machines/{id}.
func (s *Server) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Forget(id)
	w.WriteHeader(http.StatusNoContent)
}

// SetAlphabet handles PUT /machines/{id}/alphabet.
// Existing transitions are kept as they are.
func (s *Server) SetAlphabet(w http.ResponseWriter, r *http.Request) {
	var body alphabetRequest
	if err := decode(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}
	alphabet, err := runner.ParseAlphabet(body.Alphabet)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(e *turing.Engine) error {
		e.SetAlphabet(alphabet)
		return nil
	})
}

// AddState handles POST /machines/{id}/states.
// Without transitions the new state rejects on every symbol.
func (s *Server) AddState(w http.ResponseWriter, r *http.Request) {
	var body stateRequest
	if err := decode(r, &body, true); err != nil {
		s.fail(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	var resp stateResponse
	err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		transitions := body.Transitions
		if transitions == nil {
			transitions = domain.DefaultTransitions(e.Alphabet())
		}
		resp.State = e.AddState(body.Name, transitions)
		resp.Snapshot = e.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Publish(id, resp.Snapshot)
	s.writeJSON(w, http.StatusCreated, resp)
}

// RenameState handles PATCH /machines/{id}/states/{state}.
func (s *Server) RenameState(w http.ResponseWriter, r *http.Request) {
	index, err := stateParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body renameRequest
	if err := decode(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(e *turing.Engine) error {
		return e.RenameState(index, body.Name)
	})
}

// SetTransition handles PUT /machines/{id}/states/{state}/transitions/{symbol}.
func (s *Server) SetTransition(w http.ResponseWriter, r *http.Request) {
	index, symbol, err := transitionParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body transitionRequest
	if err := decode(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Write == nil || body.Move == nil || body.Next == nil {
		s.fail(w, r, fmt.Errorf("%w: write, move and next are required", errBadRequest))
		return
	}
	t := domain.Transition{Write: *body.Write, Move: *body.Move, Next: *body.Next}
	s.mutate(w, r, func(e *turing.Engine) error {
		return e.SetTransition(index, symbol, t)
	})
}

// ClearTransition handles DELETE /machines/{id}/states/{state}/transitions/{symbol}.
func (s *Server) ClearTransition(w http.ResponseWriter, r *http.Request) {
	index, symbol, err := transitionParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(e *turing.Engine) error {
		return e.ClearTransition(index, symbol)
	})
}

// SetTape handles PUT /machines/{id}/tape.
// Characters outside the alphabet are dropped.
func (s *Server) SetTape(w http.ResponseWriter, r *http.Request) {
	var body tapeRequest
	if err := decode(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(e *turing.Engine) error {
		symbols, err := runner.ParseTape(body.Tape, e.Alphabet())
		if err != nil {
			return err
		}
		e.SetTape(symbols)
		return nil
	})
}

// Step handles POST /machines/{id}/step. The optional count applies several
// steps at once and stops early on halt.
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	body := stepRequest{Count: 1}
	if err := decode(r, &body, true); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Count < 1 || body.Count > runner.MaxBatchSteps {
		s.fail(w, r, fmt.Errorf("%w: count must be between 1 and %d", errBadRequest, runner.MaxBatchSteps))
		return
	}

	id := chi.URLParam(r, "id")
	var resp stepResponse
	var stepErr error
	err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		ctx := r.Context()
		for range body.Count {
			// A cancelled request releases the lock with the steps applied so far.
			if ctx.Err() != nil {
				break
			}
			resp.Outcome, stepErr = e.Step(ctx)
			if resp.Outcome != domain.OutcomeStepped {
				break
			}
			resp.Applied++
		}
		resp.Snapshot = e.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Publish(id, resp.Snapshot)

	if stepErr != nil {
		s.fail(w, r, stepErr)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Reset handles POST /machines/{id}/reset. The tape is kept.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(e *turing.Engine) error {
		e.Reset()
		return nil
	})
}

// Run handles POST /machines/{id}/run.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body runRequest
	if err := decode(r, &body, true); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.IntervalMS < 0 || body.MaxSteps < 0 {
		s.fail(w, r, fmt.Errorf("%w: interval_ms and max_steps must not be negative", errBadRequest))
		return
	}

	id := chi.URLParam(r, "id")
	observer := runner.HandlerFunc(func(_ context.Context, snap domain.Snapshot) error {
		s.Streams.Publish(id, snap)
		return nil
	})
	interval := time.Duration(body.IntervalMS) * time.Millisecond
	if err := s.Sessions.Start(id, interval, body.MaxSteps, observer); err != nil {
		s.fail(w, r, err)
		return
	}

	info, err := s.Sessions.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, info)
}

// Stop handles POST /machines/{id}/stop.
func (s *Server) Stop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Stop(id); err != nil {
		s.fail(w, r, err)
		return
	}
	info, err := s.Sessions.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// GetTable handles GET /machines/{id}/table (Markdown).
func (s *Server) GetTable(w http.ResponseWriter, r *http.Request) {
	var table string
	err := s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		table = tui.TransitionTable(e.States(), e.Alphabet())
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(table))
}

// GetGraph handles GET /machines/{id}/graph (Mermaid).
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var chart string
	err := s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		chart = graph.GenerateMermaid(e.States(), e.Alphabet(), &graph.Overlay{Current: e.Current()})
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(chart))
}

// mutate runs fn under the session lock and answers with the new snapshot.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*turing.Engine) error) {
	id := chi.URLParam(r, "id")
	var snap domain.Snapshot
	err := s.Sessions.WithLock(r.Context(), id, func(e *turing.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.Streams.Publish(id, snap)
	s.writeJSON(w, http.StatusOK, snapshotResponse{Snapshot: snap})
}

func stateParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "state")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: state must be a non-negative index, got %q", errBadRequest, raw)
	}
	return index, nil
}

func transitionParams(r *http.Request) (int, domain.Symbol, error) {
	index, err := stateParam(r)
	if err != nil {
		return 0, 0, err
	}
	raw, err := url.PathUnescape(chi.URLParam(r, "symbol"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	symbol, err := domain.ParseSymbol(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return index, symbol, nil
}

// CheckMachine handles GET /machines/{id}/check.
func (s *Server) CheckMachine(w http.ResponseWriter, r *http.Request) {
	issues := []validator.Issue{}
	err := s.Sessions.WithLock(r.Context(), chi.URLParam(r, "id"), func(e *turing.Engine) error {
		issues = append(issues, validator.Check(e.States(), e.Alphabet())...)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"valid": len(issues) == 0, "issues": issues})
}
