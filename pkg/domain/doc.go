/*
Package domain contains the core domain models of the Turing machine simulator.

It defines the machine definition (alphabet, states, transitions), the run
state (tape, head, current state) and the read models handed to renderers.
This package is kept pure and free of external dependencies like I/O,
following the same Hexagonal Architecture split used by the engine.

# Key Entities

  - Symbol / Alphabet: single characters usable on the tape, Blank included.
  - StateID: a tagged variant, either Running(index), Accept or Reject.
  - Transition: the (write, move, next) triple for one (state, symbol) pair.
  - Tape: a sparse, bi-infinite tape where unwritten cells read Blank.
  - Snapshot: what a presentation layer needs to draw one step.
*/
package domain
