package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// createLogger configures the REPL logger.
// In debug mode, it writes to Stderr (to separate from the Stdout tape view).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile picks the termenv profile for out.
func colorProfile(out io.Writer, noColor bool) termenv.Profile {
	if noColor || !isTerminal(out) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// resolveState finds a state by index or by name.
func resolveState(states []domain.State, ref string) (int, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(states) {
			return 0, fmt.Errorf("%w: index %d (have %d states)", domain.ErrUnknownState, i, len(states))
		}
		return i, nil
	}
	for i, s := range states {
		if s.Name == ref {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownState, ref)
}

// resolveNext parses the target of a transition. Numeric targets may point
// at states that do not exist yet; they fault only when reached.
func resolveNext(states []domain.State, ref string) (domain.StateID, error) {
	switch strings.ToLower(ref) {
	case "yes", "accept":
		return domain.Accept, nil
	case "no", "reject":
		return domain.Reject, nil
	}
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 {
			return domain.StateID{}, fmt.Errorf("invalid state index %d", i)
		}
		return domain.Running(i), nil
	}
	i, err := resolveState(states, ref)
	if err != nil {
		return domain.StateID{}, err
	}
	return domain.Running(i), nil
}

// resolveSymbol parses a symbol and checks it belongs to alphabet.
func resolveSymbol(alphabet domain.Alphabet, ref string) (domain.Symbol, error) {
	s, err := domain.ParseSymbol(ref)
	if err != nil {
		return 0, err
	}
	if !alphabet.Contains(s) {
		return 0, fmt.Errorf("symbol %q is not in the alphabet %q", s.String(), alphabet.String())
	}
	return s, nil
}
