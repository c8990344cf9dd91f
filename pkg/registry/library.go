package registry

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

// Default returns a registry preloaded with the built-in machines.
func Default() *Registry {
	r := NewRegistry()
	r.Register("unary-increment", "Append a 1 to a unary number", UnaryIncrement)
	r.Register("binary-increment", "Add one to a binary number", BinaryIncrement)
	r.Register("even-ones", "Accept when the tape holds an even number of 1s", EvenOnes)
	r.Register("palindrome", "Accept palindromes over a and b", Palindrome)
	return r
}

// UnaryIncrement moves right over the 1s and writes one more.
func UnaryIncrement() *dsl.Builder {
	b := dsl.New("1")
	b.State("scan").
		Keep('1', domain.Right, "scan").
		On(domain.Blank, '1', domain.Right, dsl.Accept)
	return b.Tape("111")
}

// BinaryIncrement walks to the last digit, then carries leftwards.
func BinaryIncrement() *dsl.Builder {
	b := dsl.New("01")
	b.State("right").
		Keep('0', domain.Right, "right").
		Keep('1', domain.Right, "right").
		Keep(domain.Blank, domain.Left, "carry")
	b.State("carry").
		On('1', '0', domain.Left, "carry").
		On('0', '1', domain.Left, dsl.Accept).
		On(domain.Blank, '1', domain.Left, dsl.Accept)
	return b.Tape("1011")
}

// EvenOnes tracks parity in the current state.
func EvenOnes() *dsl.Builder {
	b := dsl.New("01")
	b.State("even").
		Keep('0', domain.Right, "even").
		Keep('1', domain.Right, "odd").
		Keep(domain.Blank, domain.Right, dsl.Accept)
	b.State("odd").
		Keep('0', domain.Right, "odd").
		Keep('1', domain.Right, "even").
		Keep(domain.Blank, domain.Right, dsl.Reject)
	return b.Tape("0110")
}

// Palindrome erases matching outer symbols until the tape is blank.
func Palindrome() *dsl.Builder {
	b := dsl.New("ab")
	b.State("pick").
		On('a', domain.Blank, domain.Right, "seek-a").
		On('b', domain.Blank, domain.Right, "seek-b").
		Keep(domain.Blank, domain.Right, dsl.Accept)

	for _, sym := range []domain.Symbol{'a', 'b'} {
		seek, check := "seek-"+string(rune(sym)), "check-"+string(rune(sym))
		b.State(seek).
			Keep('a', domain.Right, seek).
			Keep('b', domain.Right, seek).
			Keep(domain.Blank, domain.Left, check)

		other := domain.Symbol('b')
		if sym == 'b' {
			other = 'a'
		}
		b.State(check).
			On(sym, domain.Blank, domain.Left, "back").
			Keep(other, domain.Left, dsl.Reject).
			Keep(domain.Blank, domain.Left, dsl.Accept)
	}

	b.State("back").
		Keep('a', domain.Left, "back").
		Keep('b', domain.Left, "back").
		Keep(domain.Blank, domain.Right, "pick")
	return b.Tape("abba")
}
