/*
Package dsl provides a Go DSL for programmatically constructing Turing machines.

States are referenced by name while building and resolved to indexes by Build,
so a transition may name a state that is declared later. The first state added
is the start state.

Example usage:

	b := dsl.New("1")

	b.State("scan").
		Keep('1', domain.Right, "scan").
		On(domain.Blank, '1', domain.Right, dsl.Accept)

	engine, err := b.Tape("11").Build()
	if err != nil {
		return err
	}
	// engine is a *turing.Engine at state 0, head 0.
*/
package dsl
