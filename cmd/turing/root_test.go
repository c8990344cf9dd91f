package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ClosesLogFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turing.log")
	t.Setenv("TURING_LOG_FILE", path)

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"repl", "--example", "nope"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})

	err := execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading --example")

	assert.Nil(t, logFile, "log file left open")
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "log file was opened")
}
