package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
)

// errQuit ends the REPL loop.
var errQuit = errors.New("quit")

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	run     func(s *Session, ctx context.Context, args []string) error
}

func commandTable() []command {
	return []command{
		{name: "alphabet", usage: "alphabet [symbols]", help: "show or replace the alphabet (transitions are kept)", run: (*Session).cmdAlphabet},
		{name: "state", usage: "state [name]", help: "add a state that rewrites, moves right and rejects on every symbol", run: (*Session).cmdState},
		{name: "rename", usage: "rename <state> <name>", help: "rename a state", run: (*Session).cmdRename},
		{name: "set", usage: "set <state> <symbol> <write> <L|R> <next>", help: "define a transition; next is a state, yes or no", run: (*Session).cmdSet},
		{name: "unset", usage: "unset <state> <symbol>", help: "remove a transition", run: (*Session).cmdUnset},
		{name: "tape", usage: "tape [text]", help: "replace the tape; characters outside the alphabet are dropped", run: (*Session).cmdTape},
		{name: "step", aliases: []string{"s"}, usage: "step [n]", help: "apply up to n transitions (default 1)", run: (*Session).cmdStep},
		{name: "run", aliases: []string{"r"}, usage: "run [interval]", help: "step on a timer until halt, fault or Ctrl+C", run: (*Session).cmdRun},
		{name: "reset", usage: "reset", help: "return to state 0 at position 0, keeping the tape", run: (*Session).cmdReset},
		{name: "show", usage: "show", help: "print the tape and status", run: (*Session).cmdShow},
		{name: "table", usage: "table", help: "print the transition table", run: (*Session).cmdTable},
		{name: "check", usage: "check", help: "list missing transitions and unreachable states", run: (*Session).cmdCheck},
		{name: "examples", usage: "examples", help: "list the built-in machines", run: (*Session).cmdExamples},
		{name: "load", usage: "load <example>", help: "replace the machine with a built-in one", run: (*Session).cmdLoad},
		{name: "graph", usage: "graph", help: "print the state diagram as Mermaid", run: (*Session).cmdGraph},
		{name: "help", aliases: []string{"?"}, usage: "help", help: "list commands", run: (*Session).cmdHelp},
		{name: "quit", aliases: []string{"q", "exit"}, usage: "quit", help: "leave", run: (*Session).cmdQuit},
	}
}

func lookupCommand(table []command, name string) (command, bool) {
	for _, c := range table {
		if c.name == name {
			return c, true
		}
		for _, a := range c.aliases {
			if a == name {
				return c, true
			}
		}
	}
	return command{}, false
}

func usageError(c command) error {
	return fmt.Errorf("usage: %s", c.usage)
}

func (s *Session) cmdAlphabet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printSystemMessage(s.out, "Alphabet: %s (plus %s)", s.engine.Alphabet().String(), domain.Blank)
		return nil
	}
	alphabet, err := runner.ParseAlphabet(strings.Join(args, ""))
	if err != nil {
		return err
	}
	s.engine.SetAlphabet(alphabet)
	printSystemMessage(s.out, "Alphabet: %s (plus %s)", alphabet.String(), domain.Blank)
	return nil
}

func (s *Session) cmdState(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	id := s.engine.AddState(name, domain.DefaultTransitions(s.engine.Alphabet()))
	printSystemMessage(s.out, "Added state %s (%s).", id, s.engine.StateName(id))
	return nil
}

func (s *Session) cmdRename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError(s.mustCommand("rename"))
	}
	index, err := resolveState(s.engine.States(), args[0])
	if err != nil {
		return err
	}
	return s.engine.RenameState(index, strings.Join(args[1:], " "))
}

func (s *Session) cmdSet(ctx context.Context, args []string) error {
	if len(args) != 5 {
		return usageError(s.mustCommand("set"))
	}
	states := s.engine.States()
	alphabet := s.engine.Alphabet()

	index, err := resolveState(states, args[0])
	if err != nil {
		return err
	}
	read, err := resolveSymbol(alphabet, args[1])
	if err != nil {
		return err
	}
	write, err := resolveSymbol(alphabet, args[2])
	if err != nil {
		return err
	}
	move, err := domain.ParseDirection(args[3])
	if err != nil {
		return err
	}
	next, err := resolveNext(states, args[4])
	if err != nil {
		return err
	}
	return s.engine.SetTransition(index, read, domain.Transition{Write: write, Move: move, Next: next})
}

func (s *Session) cmdUnset(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError(s.mustCommand("unset"))
	}
	index, err := resolveState(s.engine.States(), args[0])
	if err != nil {
		return err
	}
	symbol, err := domain.ParseSymbol(args[1])
	if err != nil {
		return err
	}
	return s.engine.ClearTransition(index, symbol)
}

func (s *Session) cmdTape(ctx context.Context, args []string) error {
	symbols, err := runner.ParseTape(strings.Join(args, ""), s.engine.Alphabet())
	if err != nil {
		return err
	}
	s.engine.SetTape(symbols)
	return s.show(ctx)
}

func (s *Session) cmdStep(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("step count must be a positive integer, got %q", args[0])
		}
		n = v
	}
	if s.engine.IsHalted() {
		printSystemMessage(s.out, "Machine halted in %s. Use reset to run again.", s.engine.StateName(s.engine.Current()))
		return nil
	}

	res, err := runner.NewRunner(runner.WithLogger(s.logger)).StepN(ctx, s.engine, n)
	if showErr := s.show(ctx); showErr != nil {
		return showErr
	}
	if err != nil {
		return err
	}
	if res.Reason == runner.ReasonAccepted || res.Reason == runner.ReasonRejected {
		printSystemMessage(s.out, "Halted: %s after %d steps.", res.Reason, res.Snapshot.Steps)
	}
	return nil
}

func (s *Session) cmdRun(ctx context.Context, args []string) error {
	interval := s.opts.Interval
	if len(args) > 0 {
		d, err := time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("interval must be a positive duration such as 200ms, got %q", args[0])
		}
		interval = d
	}

	runCtx := ctx
	if s.signals != nil {
		runCtx = s.signals.Context()
	}
	r := runner.NewRunner(
		runner.WithInterval(interval),
		runner.WithMaxSteps(s.opts.MaxSteps),
		runner.WithHandler(s.display),
		runner.WithLogger(s.logger),
	)
	res, err := r.Run(runCtx, s.engine)
	if runCtx.Err() != nil && ctx.Err() == nil {
		// Ctrl+C stopped the run, not the REPL.
		s.signals.Reset()
	}
	if err != nil {
		return err
	}
	printSystemMessage(s.out, "Run ended (%s) after %d steps.", res.Reason, res.Steps)
	return nil
}

func (s *Session) cmdReset(ctx context.Context, args []string) error {
	s.engine.Reset()
	return s.show(ctx)
}

func (s *Session) cmdShow(ctx context.Context, args []string) error {
	return s.show(ctx)
}

func (s *Session) cmdTable(ctx context.Context, args []string) error {
	table := tui.TransitionTable(s.engine.States(), s.engine.Alphabet())
	out, err := s.markdown(table)
	if err != nil {
		s.logger.Debug("markdown render failed", "err", err)
		out = table
	}
	fmt.Fprint(s.out, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *Session) cmdGraph(ctx context.Context, args []string) error {
	fmt.Fprint(s.out, graph.GenerateMermaid(s.engine.States(), s.engine.Alphabet(), &graph.Overlay{Current: s.engine.Current()}))
	return nil
}

func (s *Session) cmdCheck(ctx context.Context, args []string) error {
	issues := validator.Check(s.engine.States(), s.engine.Alphabet())
	if len(issues) == 0 {
		printSystemMessage(s.out, "No issues found.")
		return nil
	}
	for _, is := range issues {
		fmt.Fprintf(s.out, "  - %s\n", is)
	}
	printSystemMessage(s.out, "%d issues found.", len(issues))
	return nil
}

func (s *Session) cmdExamples(ctx context.Context, args []string) error {
	entries := s.library.List()
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, e.Name, e.Description)
	}
	return nil
}

func (s *Session) cmdLoad(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError(s.mustCommand("load"))
	}
	engine, err := s.library.Build(args[0], s.engineOpts...)
	if err != nil {
		return err
	}
	s.engine = engine
	printSystemMessage(s.out, "Loaded %s over alphabet %s.", args[0], engine.Alphabet().String())
	return s.show(ctx)
}

func (s *Session) cmdHelp(ctx context.Context, args []string) error {
	width := 0
	for _, c := range s.commands {
		width = max(width, len(c.usage))
	}
	for _, c := range s.commands {
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, c.usage, c.help)
	}
	fmt.Fprintf(s.out, "\nStates are named or numbered. Use blank or %s for the blank symbol.\n", domain.Blank)
	return nil
}

func (s *Session) cmdQuit(ctx context.Context, args []string) error {
	return errQuit
}

func (s *Session) mustCommand(name string) command {
	c, _ := lookupCommand(s.commands, name)
	return c
}
