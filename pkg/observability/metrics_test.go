package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnRunStart(ctx, &domain.RunEvent{Machine: "last-symbol"})
	hooks.OnRunStart(ctx, &domain.RunEvent{Machine: "last-symbol"})
	hooks.OnRunHalt(ctx, &domain.RunEvent{
		Machine: "last-symbol",
		Status:  domain.StatusAccept,
		Clock:   domain.Clock{Time: 7, Space: 6},
		Elapsed: time.Millisecond,
	})
	hooks.OnRunHalt(ctx, &domain.RunEvent{
		Machine: "last-symbol",
		Status:  domain.StatusTimeout,
		Clock:   domain.Clock{Time: 3, Space: 5},
	})

	expected := `
# HELP turing_runs_started_total Total number of executions started
# TYPE turing_runs_started_total counter
turing_runs_started_total{machine="last-symbol"} 2
# HELP turing_runs_total Total number of executions that reached a final status
# TYPE turing_runs_total counter
turing_runs_total{machine="last-symbol",status="accept"} 1
turing_runs_total{machine="last-symbol",status="timeout"} 1
# HELP turing_steps_total Total number of steps taken by halted executions
# TYPE turing_steps_total counter
turing_steps_total{machine="last-symbol"} 10
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"turing_runs_started_total", "turing_runs_total", "turing_steps_total")
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "turing_tape_cells"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "turing_run_duration_seconds"))
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnRunStart(ctx, &domain.RunEvent{RunID: "r1", Machine: "minimal"})
	hooks.OnRunHalt(ctx, &domain.RunEvent{RunID: "r1", Machine: "minimal", Status: domain.StatusAccept})

	out := buf.String()
	assert.Contains(t, out, "msg=run_start")
	assert.Contains(t, out, "msg=run_halt")
	assert.Contains(t, out, "status=accept")
	assert.Contains(t, out, "run_id=r1")
}
