package runner

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	// Default Limit is 4096
	limit := 4096

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := SanitizeInput(input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("SanitizeInput() expected error for size %d, got nil", tt.inputSize)
				}
			} else {
				if err != nil {
					t.Errorf("SanitizeInput() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	_, err := SanitizeInput("123456789")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345678")
	assert.NoError(t, err)
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "0110", "0110"},
		{"Safe Controls", "01\n10\t", "01\n10\t"},
		{"ANSI Code", "\x1b[31m1\x1b[0m", "[31m1[0m"}, // ESC removed
		{"Null Byte", "1\x001", "11"},                 // NULL removed
		{"Bell", "1\x07", "1"},                        // BEL removed
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("1\xff1")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestParseAlphabet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.Symbol
	}{
		{"Empty", "", []domain.Symbol{domain.Blank}},
		{"Ordered", "ab", []domain.Symbol{'a', 'b', domain.Blank}},
		{"Duplicates", "abba", []domain.Symbol{'a', 'b', domain.Blank}},
		{"Whitespace Ignored", " a b\t", []domain.Symbol{'a', 'b', domain.Blank}},
		{"Blank Folded", "□1", []domain.Symbol{'1', domain.Blank}},
		{"Combining Sequence", "e\u0301", []domain.Symbol{'\u00e9', domain.Blank}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlphabet(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Symbols())
		})
	}
}

func TestParseTape(t *testing.T) {
	alphabet := domain.NewAlphabet('0', '1', '\u00e9')

	tests := []struct {
		name  string
		input string
		want  []domain.Symbol
	}{
		{"Empty", "", []domain.Symbol{domain.Blank}},
		{"Trailing Blank Added", "01", []domain.Symbol{'0', '1', domain.Blank}},
		{"Trailing Blank Kept", "01□", []domain.Symbol{'0', '1', domain.Blank}},
		{"Inner Blank Kept", "0□1", []domain.Symbol{'0', domain.Blank, '1', domain.Blank}},
		{"Foreign Dropped", "0x1 2", []domain.Symbol{'0', '1', domain.Blank}},
		{"Normalized", "e\u0301", []domain.Symbol{'\u00e9', domain.Blank}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTape(tt.input, alphabet)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTape_RejectsOversized(t *testing.T) {
	_, err := ParseTape(strings.Repeat("0", DefaultMaxInputSize+1), domain.NewAlphabet('0'))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
