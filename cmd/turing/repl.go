package main

import (
	"os"
	"time"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Edit and run a machine interactively",
	Long: `Starts the interactive editor. Add states, define transitions, load a
tape, then step or run the machine. Type help inside the REPL for commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		alphabet, _ := cmd.Flags().GetString("alphabet")
		tape, _ := cmd.Flags().GetString("tape")
		example, _ := cmd.Flags().GetString("example")
		jsonMode, _ := cmd.Flags().GetBool("json")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		// The REPL owns stdout; logs reach stderr only in debug.
		debug := cfg.LogLevel == "debug"
		logger, err := newLogger(debug)
		if err != nil {
			return err
		}

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Alphabet: alphabet,
			Tape:     tape,
			Example:  example,
			Interval: cfg.Interval,
			MaxSteps: cfg.MaxSteps,
			JSON:     jsonMode,
			NoColor:  cfg.NoColor,
			NoBanner: noBanner,
			Debug:    debug,
			Logger:   logger,
			In:       os.Stdin,
			Out:      os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringP("alphabet", "a", "01", "Tape alphabet; the blank symbol is added automatically")
	replCmd.Flags().StringP("tape", "t", "", "Initial tape contents")
	replCmd.Flags().StringP("example", "e", "", "Start from a built-in machine (see the examples command)")
	replCmd.Flags().Duration("interval", time.Second, "Delay between steps for run")
	replCmd.Flags().Int("max-steps", 0, "Stop run after this many steps (0 = unlimited)")
	replCmd.Flags().Bool("json", false, "Print snapshots as JSON lines")
	replCmd.Flags().Bool("no-banner", false, "Do not print the banner")

	// 'repl' runs when no subcommand is given.
	rootCmd.Flags().AddFlagSet(replCmd.Flags())
	rootCmd.RunE = replCmd.RunE
}
