package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
)

// Session is one interactive editing session over a single machine.
type Session struct {
	engine   *turing.Engine
	opts     RunOptions
	out      io.Writer
	logger   *slog.Logger
	profile  termenv.Profile
	display  runner.Handler
	markdown func(string) (string, error)
	commands []command
	signals  *runner.SignalManager
	prompt   bool

	library    *registry.Registry
	engineOpts []turing.Option
}

// NewSession prepares the REPL around engine.
func NewSession(engine *turing.Engine, opts RunOptions, logger *slog.Logger) (*Session, error) {
	s := &Session{
		engine:   engine,
		opts:     opts,
		out:      opts.Out,
		logger:   logger,
		profile:  colorProfile(opts.Out, opts.NoColor),
		commands: commandTable(),
		prompt:   isTerminal(opts.In) && !opts.JSON,

		library:    registry.Default(),
		engineOpts: engineOptions(opts, logger),
	}

	if opts.JSON {
		s.display = runner.NewJSONHandler(s.out)
	} else {
		renderer := tui.NewRenderer(s.profile)
		s.display = runner.NewTextHandler(s.out, runner.WithFormatter(renderer.Snapshot))
	}

	markdown, err := tui.NewMarkdownRenderer(s.profile != termenv.Ascii)
	if err != nil {
		return nil, fmt.Errorf("error creating table renderer: %w", err)
	}
	s.markdown = markdown
	return s, nil
}

// Run reads commands from in until quit, end of input or an idle Ctrl+C.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.signals = runner.NewSignalManager(ctx)
	defer s.signals.Stop()

	if !s.opts.NoBanner && !s.opts.JSON {
		tui.PrintBanner(s.out, s.profile)
		printSystemMessage(s.out, "Alphabet %s. Type help for commands.", s.engine.Alphabet().String())
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)
	for {
		if s.prompt {
			fmt.Fprint(s.out, "> ")
		}
		select {
		case <-s.signals.Context().Done():
			if ctx.Err() == nil {
				fmt.Fprintln(s.out)
				printSystemMessage(s.out, "Interrupted.")
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := s.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

// Exec runs a single command line. Blank lines and # comments are ignored.
func (s *Session) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])

	c, ok := lookupCommand(s.commands, name)
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	s.logger.Debug("command", "name", c.name, "args", len(fields)-1)
	return c.run(s, ctx, fields[1:])
}

func (s *Session) show(ctx context.Context) error {
	return s.display.Render(ctx, s.engine.Snapshot())
}

// readLines feeds lines from in until end of input or until done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
