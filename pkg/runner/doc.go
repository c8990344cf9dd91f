/*
Package runner drives a Turing machine from the outside world.

The engine never advances on its own. The Runner supplies the clock: it steps
a ports.Machine once per interval until the machine halts, a configuration
error surfaces, a step limit is reached or the context is cancelled.
Cancellation is observed between ticks, so a step in progress always
completes.

# Key Components

  - Runner: the timed execution loop, also StepN for manual stepping.
  - Handler: receives a snapshot after every applied step (TextHandler, JSONHandler).
  - ParseAlphabet / ParseTape: turn user text into alphabet and tape symbols.
  - SignalManager: maps Ctrl+C and SIGTERM to a cancellable context.

# Usage

	r := runner.NewRunner(
		runner.WithInterval(200*time.Millisecond),
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
	)

	result, err := r.Run(ctx, engine)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Reason)
*/
package runner
