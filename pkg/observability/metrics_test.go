package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unary(opts ...turing.Option) *turing.Engine {
	eng := turing.New(domain.NewAlphabet('1'), opts...)
	eng.AddState("scan", domain.TransitionMap{
		'1':          {Write: '1', Move: domain.Right, Next: domain.Running(0)},
		domain.Blank: {Write: '1', Move: domain.Right, Next: domain.Accept},
	})
	eng.SetTape([]domain.Symbol{'1', '1', domain.Blank})
	return eng
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	ctx := context.Background()

	eng := unary(turing.WithLifecycleHooks(metrics.Hooks()))
	for !eng.IsHalted() {
		_, err := eng.Step(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Steps))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.HeadPosition))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Halts.WithLabelValues("accept")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ConfigErrors))

	// A rejecting machine and a broken one.
	reject := turing.New(domain.NewAlphabet(), turing.WithLifecycleHooks(metrics.Hooks()))
	reject.AddState("", domain.DefaultTransitions(reject.Alphabet()))
	_, err := reject.Step(ctx)
	require.NoError(t, err)

	broken := turing.New(domain.NewAlphabet(), turing.WithLifecycleHooks(metrics.Hooks()))
	_, err = broken.Step(ctx)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Halts.WithLabelValues("reject")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConfigErrors))

	expected := `
# HELP turing_steps_total Total number of transitions applied
# TYPE turing_steps_total counter
turing_steps_total 4
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "turing_steps_total"))
}

func TestNewMetrics_Unregistered(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	metrics.Steps.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Steps))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := unary(turing.WithName("unary"), turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	for !eng.IsHalted() {
		_, err := eng.Step(context.Background())
		require.NoError(t, err)
	}

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=step"))
	assert.Contains(t, out, "msg=halt machine=unary state=yes steps=3")
}
