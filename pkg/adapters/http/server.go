package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// errBadRequest marks request payloads that could not be used.
var errBadRequest = errors.New("bad request")

// Server exposes machine sessions as a JSON API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Library  *registry.Registry

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures request and stream logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsGatherer serves /metrics from g instead of the default registry.
func WithMetricsGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
}

// WithRegistry replaces the built-in machine library offered by POST /machines.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.Library = reg
		}
	}
}

// NewServer creates a Server over sessions.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Library:  registry.Default(),
		metrics:  promhttp.Handler(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for sessions.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", s.metrics)
	r.Get("/examples", s.ListExamples)

	r.Route("/machines", func(r chi.Router) {
		r.Post("/", s.CreateMachine)
		r.Get("/", s.ListMachines)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Delete("/", s.DeleteMachine)

			r.Put("/alphabet", s.SetAlphabet)
			r.Post("/states", s.AddState)
			r.Patch("/states/{state}", s.RenameState)
			r.Put("/states/{state}/transitions/{symbol}", s.SetTransition)
			r.Delete("/states/{state}/transitions/{symbol}", s.ClearTransition)
			r.Put("/tape", s.SetTape)

			r.Post("/step", s.Step)
			r.Post("/reset", s.Reset)
			r.Post("/run", s.Run)
			r.Post("/stop", s.Stop)

			r.Get("/events", s.SubscribeEvents)
			r.Get("/table", s.GetTable)
			r.Get("/graph", s.GetGraph)
			r.Get("/check", s.CheckMachine)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

// -- Helpers --

type errorResponse struct {
	Error     string          `json:"error"`
	State     *domain.StateID `json:"state,omitempty"`
	StateName string          `json:"state_name,omitempty"`
	Symbol    *domain.Symbol  `json:"symbol,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusUnprocessableEntity
		resp.State = &cfgErr.State
		resp.StateName = cfgErr.StateName
		if errors.Is(cfgErr.Err, domain.ErrUndefinedTransition) {
			resp.Symbol = &cfgErr.Symbol
		}
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrAlreadyRunning):
		status = http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, resp)
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is true.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
}
