package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_AllStrategiesMatchReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 5000
	cfg.Threads = 4
	cfg.Workers = 3
	cfg.Stride = 3
	cfg.Iterations = 2
	cfg.Warmup = 1

	ctx := context.Background()
	values := generateValues(cfg.Size, cfg.Seed)
	ref := computeReference(values, cfg.Stride)

	runner := newRunner(cfg, values, ref, log.New(&bytes.Buffer{}))
	for _, strategy := range allStrategies {
		t.Run(strategy, func(t *testing.T) {
			result, err := runner.Run(ctx, strategy, nil)
			require.NoError(t, err)
			require.Len(t, result.Ops, len(operations))
			for _, op := range result.Ops {
				assert.Equal(t, 2, op.Summary.N, op.Op)
			}
		})
	}
}

func TestRunner_UnknownStrategy(t *testing.T) {
	runner := newRunner(DefaultConfig(), []int64{1}, reference{}, log.New(&bytes.Buffer{}))
	_, err := runner.Run(context.Background(), "Channel", nil)
	assert.Error(t, err)
}

func TestRunner_DetectsMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 100
	cfg.Iterations = 1
	cfg.Warmup = 0

	values := generateValues(cfg.Size, cfg.Seed)
	ref := computeReference(values, 1)
	ref.results["Count"] = -1

	runner := newRunner(cfg, values, ref, log.New(&bytes.Buffer{}))
	_, err := runner.Run(context.Background(), "Goroutines", nil)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestGenerateValues_Deterministic(t *testing.T) {
	a := generateValues(100, 7)
	b := generateValues(100, 7)
	c := generateValues(100, 8)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, v := range a {
		assert.True(t, v >= 0 && v < valueRange)
	}
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-size", "2000", "-threads", "3", "-workers", "2", "-iterations", "1", "-warmup", "0"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	for _, strategy := range allStrategies {
		assert.Contains(t, out, strategy)
	}
	for _, op := range operations {
		assert.Contains(t, out, op.name)
	}
}

func TestRun_ConfigFileWithOverride(t *testing.T) {
	path := writeFile(t, "bench.yaml", "size: 1000\nstrategy: Pool/FIFO\niterations: 1\nwarmup: 0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", path, "-strategy", "Goroutines"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Goroutines")
	assert.NotContains(t, stdout.String(), "Pool/FIFO")
}

func TestRun_InvalidArguments(t *testing.T) {
	tests := [][]string{
		{"-stride", "0"},
		{"-strategy", "Channel"},
		{"-log-level", "loud"},
		{"-no-such-flag"},
		{"-config", "bench.ini"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(args, &stdout, &stderr), "args %v", args)
	}
}

func TestComputeReference(t *testing.T) {
	values := []int64{3, -8, 10, 4, 7, -2}

	tests := []struct {
		stride int
		want   map[string]any
	}{
		{1, map[string]any{"Maximum": int64(10), "Minimum": int64(-8), "All": false, "Any": true, "Count": 4}},
		{2, map[string]any{"Maximum": int64(10), "Minimum": int64(3), "All": true, "Any": false, "Count": 1}},
		{7, map[string]any{"Maximum": int64(3), "Minimum": int64(3), "All": true, "Any": false, "Count": 0}},
	}

	for _, tt := range tests {
		ref := computeReference(values, tt.stride)
		assert.Equal(t, tt.want, ref.results, "stride %d", tt.stride)
		assert.Len(t, ref.durations, len(operations))
	}
}
