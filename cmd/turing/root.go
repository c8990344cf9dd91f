package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg     = config.Default()
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "turing is an interactive single-tape Turing machine simulator",
	Long: `turing lets you build a Turing machine state by state, load a tape and
watch it step, from a terminal REPL, an HTTP API or an MCP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the selected command and closes the log file however it ended.
func execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Shorthand for --log-level debug")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// loadConfig layers the config file, the environment and the flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Lookup("interval") != nil && flags.Changed("interval") {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
	if flags.Lookup("max-steps") != nil && flags.Changed("max-steps") {
		cfg.MaxSteps, _ = flags.GetInt("max-steps")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	return cfg.Validate()
}

// newLogger builds the process logger. Text goes to stderr when toStderr is
// set; a configured log_file always receives JSON.
func newLogger(toStderr bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var extra []slog.Handler
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		extra = append(extra, logging.NewJSONHandler(f, level))
	}

	if toStderr {
		return logging.New(level, extra...), nil
	}
	if len(extra) == 0 {
		return logging.NewNop(), nil
	}
	return slog.New(extra[0]), nil
}
