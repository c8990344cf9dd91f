package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"golang.org/x/text/unicode/norm"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans user input by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
func SanitizeInput(input string) (string, error) {
	limit := getMaxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated: a truncated tape is a different machine input.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Newline, tab and carriage return survive; ESC, NULL, BEL and friends do not.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

// ParseAlphabet builds an alphabet from the characters of text.
// Whitespace is ignored, repeats collapse to their first occurrence and
// Blank is always present as the last symbol.
func ParseAlphabet(text string) (domain.Alphabet, error) {
	clean, err := SanitizeInput(text)
	if err != nil {
		return domain.Alphabet{}, err
	}

	var symbols []domain.Symbol
	for _, r := range norm.NFC.String(clean) {
		if unicode.IsSpace(r) {
			continue
		}
		symbols = append(symbols, domain.Symbol(r))
	}
	return domain.NewAlphabet(symbols...), nil
}

// ParseTape converts text into tape symbols. Characters outside alphabet are
// dropped without error, and a single Blank is appended unless the result
// already ends in one.
func ParseTape(text string, alphabet domain.Alphabet) ([]domain.Symbol, error) {
	clean, err := SanitizeInput(text)
	if err != nil {
		return nil, err
	}

	var symbols []domain.Symbol
	for _, r := range norm.NFC.String(clean) {
		s := domain.Symbol(r)
		if alphabet.Contains(s) {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 || symbols[len(symbols)-1] != domain.Blank {
		symbols = append(symbols, domain.Blank)
	}
	return symbols, nil
}
