package runner_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_PlainFormat(t *testing.T) {
	var buf bytes.Buffer
	h := runner.NewTextHandler(&buf)

	require.NoError(t, h.Render(t.Context(), unaryEngine().Snapshot()))

	assert.Equal(t, "[1] 1  □ \nstate: scan  head: 0  steps: 0\n", buf.String())
}

func TestTextHandler_WithFormatter(t *testing.T) {
	var buf bytes.Buffer
	h := runner.NewTextHandler(&buf, runner.WithFormatter(func(s domain.Snapshot) string {
		return s.Label
	}))

	require.NoError(t, h.Render(t.Context(), unaryEngine().Snapshot()))

	assert.Equal(t, "scan\n", buf.String())
}

func TestJSONHandler_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := runner.NewRunner(runner.WithInterval(tick), runner.WithHandler(runner.NewJSONHandler(&buf)))

	_, err := r.Run(t.Context(), unaryEngine())
	require.NoError(t, err)

	var snaps []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(buf.String()))
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		snaps = append(snaps, m)
	}

	require.Len(t, snaps, 3)
	assert.Equal(t, "yes", snaps[2]["state"])
	assert.Equal(t, true, snaps[2]["halted"])
	assert.Equal(t, []any{"1", "1", "1", "□"}, snaps[2]["cells"])
}

func TestHandlers_FanOut(t *testing.T) {
	var a, b bytes.Buffer
	h := runner.Handlers(runner.NewTextHandler(&a), nil, runner.NewJSONHandler(&b))

	require.NoError(t, h.Render(t.Context(), unaryEngine().Snapshot()))

	assert.NotEmpty(t, a.String())
	assert.True(t, json.Valid(b.Bytes()))
}
