/*
Package turing is an interactive single-tape Turing machine simulator.

A machine is an alphabet, an append-only list of states, each mapping every
symbol to a transition (write, move, next state), and a tape. The engine owns
the definition and the run state and advances it one transition at a time.
Scheduling, input parsing and rendering live in the drivers around it.

# Concept

The tape is conceptually infinite in both directions and reads Blank (□)
wherever nothing has been written. A step reads the symbol under the head,
looks up the transition of the current state, writes, moves and switches
state. Two terminal markers end a run: Accept ("yes") and Reject ("no").
A missing transition is a configuration error: the step fails as a value
and leaves the machine untouched.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/turing"
		"github.com/aretw0/turing/pkg/domain"
	)

	func main() {
		// Unary increment: skip the 1s, write a 1 on the first blank.
		eng := turing.New(domain.NewAlphabet('1'))
		eng.AddState("scan", domain.TransitionMap{
			'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
			domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
		})
		eng.SetTape([]domain.Symbol{'1', '1', domain.Blank})

		ctx := context.Background()
		for !eng.IsHalted() {
			if _, err := eng.Step(ctx); err != nil {
				fmt.Println("error:", err)
				return
			}
		}
		fmt.Println(eng.Tape(), eng.Snapshot().Label)
	}

For timed execution see pkg/runner; for serving machines over HTTP or MCP
see pkg/session and pkg/adapters.
*/
package turing
