/*
Package ports defines the driven ports (interfaces) of the Turing machine engine.

These interfaces decouple drivers (runners, network adapters, REPL) from the
concrete engine, so a driver can step a plain engine or a session-locked view
of one without knowing which.

# Key Interfaces

  - Machine: the synchronous step/read contract a driver clocks.
  - Editor: the mutation contract presentation layers use to build machines.
*/
package ports
