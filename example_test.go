package turing_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
)

// ExampleNew runs the unary increment machine to completion.
func ExampleNew() {
	eng := turing.New(domain.NewAlphabet('1'), turing.WithName("unary"))
	eng.AddState("scan", domain.TransitionMap{
		'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
		domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
	})
	eng.SetTape([]domain.Symbol{'1', '1', domain.Blank})

	ctx := context.Background()
	for !eng.IsHalted() {
		if _, err := eng.Step(ctx); err != nil {
			log.Fatal(err)
		}
	}

	snap := eng.Snapshot()
	fmt.Printf("Tape: %s\n", eng.Tape())
	fmt.Printf("State: %s\n", snap.Label)
	fmt.Printf("Head: %d\n", snap.Head)
	// Output:
	// Tape: 111
	// State: yes
	// Head: 3
}

// ExampleEngine_Step shows a missing transition surfacing as an error value.
func ExampleEngine_Step() {
	eng := turing.New(domain.NewAlphabet('1'))
	eng.AddState("only-ones", domain.TransitionMap{
		'1': {Write: '1', Move: domain.Right, Next: domain.Running(0)},
	})

	outcome, err := eng.Step(context.Background())
	fmt.Println(outcome)
	fmt.Println(err)
	// Output:
	// faulted
	// undefined transition: state only-ones has no transition for symbol "□"
}
