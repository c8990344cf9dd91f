package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/muesli/termenv"
)

// Server exposes machine sessions as MCP tools.
type Server struct {
	sessions  *session.Manager
	library   *registry.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures tool call logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the built-in machine library offered by create_machine.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.library = reg
		}
	}
}

// NewServer creates a new MCP Server instance over sessions.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		library:   registry.Default(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_machine",
		mcp.WithDescription("Create a machine over an alphabet, or from a built-in example. The blank symbol □ is added automatically."),
		mcp.WithString("alphabet", mcp.Description("Tape symbols, one character each, e.g. \"01\"")),
		mcp.WithString("example", mcp.Description("Built-in machine to start from (see list_examples); excludes alphabet")),
		mcp.WithString("name", mcp.Description("Optional display name")),
		mcp.WithOutputSchema[MachineResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreateMachine))

	s.mcpServer.AddTool(mcp.NewTool("list_examples",
		mcp.WithDescription("List the built-in machines accepted by create_machine."),
		mcp.WithOutputSchema[ExamplesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListExamples))

	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the ids of every machine."),
	), mcp.NewStructuredToolHandler(s.handleListMachines))

	s.mcpServer.AddTool(mcp.NewTool("delete_machine",
		mcp.WithDescription("Delete a machine, stopping any background run."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
	), mcp.NewStructuredToolHandler(s.handleDeleteMachine))

	s.mcpServer.AddTool(mcp.NewTool("add_state",
		mcp.WithDescription("Append a state. Without transitions, every symbol rewrites itself, moves right and rejects."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithString("name", mcp.Description("State name (defaults to stateN)")),
		mcp.WithObject("transitions", mcp.Description(`Map of symbol to {"write","move","next"}; next is a state index, "yes" or "no"`)),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleAddState))

	s.mcpServer.AddTool(mcp.NewTool("set_transition",
		mcp.WithDescription("Define the transition for a (state, symbol) pair."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithNumber("state", mcp.Required(), mcp.Description("State index")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description(`Symbol read; "blank" for □`)),
		mcp.WithString("write", mcp.Required(), mcp.Description(`Symbol written; "blank" for □`)),
		mcp.WithString("move", mcp.Required(), mcp.Description("L or R")),
		mcp.WithString("next", mcp.Required(), mcp.Description(`Next state index, "yes" or "no"`)),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetTransition))

	s.mcpServer.AddTool(mcp.NewTool("set_tape",
		mcp.WithDescription("Replace the tape. Characters outside the alphabet are dropped."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithString("tape", mcp.Required(), mcp.Description("Tape contents starting at position 0")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetTape))

	s.mcpServer.AddTool(mcp.NewTool("step",
		mcp.WithDescription("Apply up to count transitions (default 1). Stops early on halt or fault."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithNumber("count", mcp.Description("Number of steps")),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleStep))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Return to state 0 at position 0. The tape is kept."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithOutputSchema[SnapshotResponse](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("inspect",
		mcp.WithDescription("Show the snapshot, the transition table (Markdown), the state diagram (Mermaid) and any missing or unreachable rules."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Machine id")),
		mcp.WithOutputSchema[InspectResponse](),
	), mcp.NewStructuredToolHandler(s.handleInspect))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("turing://machines", "Machine ids",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://machines",
				MIMEType: "text/plain",
				Text:     strings.Join(s.sessions.List(), "\n"),
			},
		}, nil
	})
}

// withEngine runs fn under the machine lock and logs the tool call.
func (s *Server) withEngine(ctx context.Context, tool, id string, fn func(*turing.Engine) error) error {
	err := s.sessions.WithLock(ctx, id, fn)
	if err != nil {
		s.logger.Debug("tool failed", "tool", tool, "session_id", id, "err", err)
		return err
	}
	s.logger.Debug("tool called", "tool", tool, "session_id", id)
	return nil
}

func (s *Server) handleCreateMachine(ctx context.Context, _ mcp.CallToolRequest, args CreateArgs) (MachineResponse, error) {
	id, err := s.create(args)
	if err != nil {
		return MachineResponse{}, err
	}

	resp := MachineResponse{ID: id}
	err = s.withEngine(ctx, "create_machine", id, func(e *turing.Engine) error {
		resp.Alphabet = e.Alphabet().String()
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) create(args CreateArgs) (string, error) {
	if args.Example == "" {
		alphabet, err := runner.ParseAlphabet(args.Alphabet)
		if err != nil {
			return "", err
		}
		return s.sessions.Create(alphabet, args.Name), nil
	}
	if args.Alphabet != "" {
		return "", errors.New("alphabet and example are mutually exclusive")
	}
	name := args.Name
	if name == "" {
		name = args.Example
	}
	return s.sessions.CreateWith(name, func(opts ...turing.Option) (*turing.Engine, error) {
		return s.library.Build(args.Example, opts...)
	})
}

func (s *Server) handleListExamples(_ context.Context, _ mcp.CallToolRequest, _ struct{}) (ExamplesResponse, error) {
	return ExamplesResponse{Examples: s.library.List()}, nil
}

func (s *Server) handleListMachines(_ context.Context, _ mcp.CallToolRequest, _ struct{}) (ListResponse, error) {
	return ListResponse{Machines: s.sessions.List()}, nil
}

func (s *Server) handleDeleteMachine(ctx context.Context, _ mcp.CallToolRequest, args MachineArgs) (DeleteResponse, error) {
	if err := s.sessions.Delete(ctx, args.Machine); err != nil {
		return DeleteResponse{}, err
	}
	return DeleteResponse{Deleted: args.Machine}, nil
}

func (s *Server) handleAddState(ctx context.Context, _ mcp.CallToolRequest, args AddStateArgs) (StateResponse, error) {
	var resp StateResponse
	err := s.withEngine(ctx, "add_state", args.Machine, func(e *turing.Engine) error {
		transitions := args.Transitions
		if transitions == nil {
			transitions = domain.DefaultTransitions(e.Alphabet())
		}
		resp.State = e.AddState(args.Name, transitions)
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) handleSetTransition(ctx context.Context, _ mcp.CallToolRequest, args TransitionArgs) (SnapshotResponse, error) {
	symbol, err := domain.ParseSymbol(args.Symbol)
	if err != nil {
		return SnapshotResponse{}, fmt.Errorf("symbol: %w", err)
	}
	write, err := domain.ParseSymbol(args.Write)
	if err != nil {
		return SnapshotResponse{}, fmt.Errorf("write: %w", err)
	}
	move, err := domain.ParseDirection(args.Move)
	if err != nil {
		return SnapshotResponse{}, err
	}
	next, err := domain.ParseStateID(args.Next)
	if err != nil {
		return SnapshotResponse{}, err
	}

	var resp SnapshotResponse
	err = s.withEngine(ctx, "set_transition", args.Machine, func(e *turing.Engine) error {
		if err := e.SetTransition(args.State, symbol, domain.Transition{Write: write, Move: move, Next: next}); err != nil {
			return err
		}
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) handleSetTape(ctx context.Context, _ mcp.CallToolRequest, args TapeArgs) (SnapshotResponse, error) {
	var resp SnapshotResponse
	err := s.withEngine(ctx, "set_tape", args.Machine, func(e *turing.Engine) error {
		symbols, err := runner.ParseTape(args.Tape, e.Alphabet())
		if err != nil {
			return err
		}
		e.SetTape(symbols)
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

// handleStep reports faults in the response so the caller still sees the snapshot.
func (s *Server) handleStep(ctx context.Context, _ mcp.CallToolRequest, args StepArgs) (StepResponse, error) {
	count := args.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > runner.MaxBatchSteps {
		return StepResponse{}, fmt.Errorf("count must be between 1 and %d, got %d", runner.MaxBatchSteps, count)
	}

	var resp StepResponse
	err := s.withEngine(ctx, "step", args.Machine, func(e *turing.Engine) error {
		for range count {
			if ctx.Err() != nil {
				break
			}
			outcome, err := e.Step(ctx)
			resp.Outcome = outcome.String()
			if err != nil {
				resp.Error = err.Error()
			}
			if outcome != domain.OutcomeStepped {
				break
			}
			resp.Applied++
		}
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) handleReset(ctx context.Context, _ mcp.CallToolRequest, args MachineArgs) (SnapshotResponse, error) {
	var resp SnapshotResponse
	err := s.withEngine(ctx, "reset", args.Machine, func(e *turing.Engine) error {
		e.Reset()
		resp.Snapshot = e.Snapshot()
		return nil
	})
	return resp, err
}

func (s *Server) handleInspect(ctx context.Context, _ mcp.CallToolRequest, args MachineArgs) (InspectResponse, error) {
	var resp InspectResponse
	err := s.withEngine(ctx, "inspect", args.Machine, func(e *turing.Engine) error {
		states := e.States()
		snap := e.Snapshot()
		resp.Snapshot = snap
		resp.Tape = tui.NewRenderer(termenv.Ascii).Snapshot(snap)
		resp.Table = tui.TransitionTable(states, e.Alphabet())
		resp.Graph = graph.GenerateMermaid(states, e.Alphabet(), &graph.Overlay{Current: snap.State})
		resp.Issues = validator.Check(states, e.Alphabet())
		return nil
	})
	return resp, err
}
