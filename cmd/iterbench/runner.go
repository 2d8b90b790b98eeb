package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/anbtrfl/iterpar/iterative"
	"github.com/anbtrfl/iterpar/pool"
)

var allStrategies = []string{
	"Goroutines",
	"Pool/FIFO",
	"Pool/MPMC",
}

var ErrMismatch = errors.New("result differs from sequential reference")

// valueRange bounds generated values; every value is non-negative.
const valueRange = 1 << 40

func nonNegative(x int64) bool { return x >= 0 }
func negative(x int64) bool    { return x < 0 }
func even(x int64) bool        { return x%2 == 0 }

// operation is one aggregation measured by the benchmark. run returns the
// result in a comparable form; sequential computes the same result with a
// plain loop and serves as the reference.
type operation struct {
	name       string
	run        func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error)
	sequential func(values []int64, stride int) any
}

// operations lists the measured aggregations. The predicates are chosen so
// that All and Any scan every selected element.
var operations = []operation{
	{
		name: "Maximum",
		run: func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error) {
			return iterative.Maximum(ctx, agg, threads, values, cmp.Compare[int64], stride)
		},
		sequential: func(values []int64, stride int) any {
			best := values[0]
			for i := stride; i < len(values); i += stride {
				if values[i] > best {
					best = values[i]
				}
			}
			return best
		},
	},
	{
		name: "Minimum",
		run: func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error) {
			return iterative.Minimum(ctx, agg, threads, values, cmp.Compare[int64], stride)
		},
		sequential: func(values []int64, stride int) any {
			best := values[0]
			for i := stride; i < len(values); i += stride {
				if values[i] < best {
					best = values[i]
				}
			}
			return best
		},
	},
	{
		name: "All",
		run: func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error) {
			return iterative.All(ctx, agg, threads, values, nonNegative, stride)
		},
		sequential: func(values []int64, stride int) any {
			for i := 0; i < len(values); i += stride {
				if !nonNegative(values[i]) {
					return false
				}
			}
			return true
		},
	},
	{
		name: "Any",
		run: func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error) {
			return iterative.Any(ctx, agg, threads, values, negative, stride)
		},
		sequential: func(values []int64, stride int) any {
			for i := 0; i < len(values); i += stride {
				if negative(values[i]) {
					return true
				}
			}
			return false
		},
	},
	{
		name: "Count",
		run: func(ctx context.Context, agg *iterative.Aggregator, threads int, values []int64, stride int) (any, error) {
			return iterative.Count(ctx, agg, threads, values, even, stride)
		},
		sequential: func(values []int64, stride int) any {
			n := 0
			for i := 0; i < len(values); i += stride {
				if even(values[i]) {
					n++
				}
			}
			return n
		},
	},
}

// generateValues returns size pseudo-random values from a fixed seed.
func generateValues(size int, seed int64) []int64 {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) // #nosec G404 -- benchmark data
	values := make([]int64, size)
	for i := range values {
		values[i] = rng.Int64N(valueRange)
	}
	return values
}

// reference holds the sequential result and duration of every operation.
type reference struct {
	results   map[string]any
	durations map[string]time.Duration
}

// computeReference runs every operation as a plain loop on one goroutine.
// values must not be empty.
func computeReference(values []int64, stride int) reference {
	ref := reference{
		results:   make(map[string]any, len(operations)),
		durations: make(map[string]time.Duration, len(operations)),
	}
	for _, op := range operations {
		start := time.Now()
		ref.results[op.name] = op.sequential(values, stride)
		ref.durations[op.name] = time.Since(start)
	}
	return ref
}

// OpResult is the timing of one operation under one strategy.
type OpResult struct {
	Op         string
	Summary    Summary
	Sequential time.Duration
}

// StrategyResult holds the results for a strategy
type StrategyResult struct {
	Name  string
	Ops   []OpResult
	Total time.Duration
	Rank  int
}

// Runner measures the operations for one strategy at a time.
type Runner struct {
	cfg    Config
	values []int64
	ref    reference
	log    *log.Logger
}

func newRunner(cfg Config, values []int64, ref reference, logger *log.Logger) *Runner {
	return &Runner{cfg: cfg, values: values, ref: ref, log: logger}
}

// aggregator builds the aggregator for strategy. The returned func releases
// its pool, if any.
func (r *Runner) aggregator(strategy string) (*iterative.Aggregator, func(), error) {
	opts := []iterative.Option{iterative.WithLogger(r.log)}

	var poolOpts []pool.WorkerPoolOption
	switch strategy {
	case "Goroutines":
		return iterative.New(opts...), func() {}, nil
	case "Pool/FIFO":
		poolOpts = append(poolOpts, pool.WithFIFOQueue())
	case "Pool/MPMC":
		poolOpts = append(poolOpts, pool.WithMPMCQueue())
	default:
		return nil, nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	poolOpts = append(poolOpts, pool.WithLogger(r.log))
	wp, err := pool.NewWorkerPool(r.cfg.WorkerCount(), poolOpts...)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := wp.Shutdown(); err != nil {
			r.log.Warn("pool shutdown", "strategy", strategy, "err", err)
		}
	}
	return iterative.NewWithPool(wp, opts...), release, nil
}

// Run measures every operation under strategy, advancing bar once per
// iteration. Each result is checked against the sequential reference.
func (r *Runner) Run(ctx context.Context, strategy string, bar *progressbar.ProgressBar) (StrategyResult, error) {
	agg, release, err := r.aggregator(strategy)
	if err != nil {
		return StrategyResult{Name: strategy}, err
	}
	defer release()

	for w := range r.cfg.Warmup {
		if _, err := r.runOnce(ctx, agg); err != nil {
			return StrategyResult{Name: strategy}, fmt.Errorf("%s warmup %d: %w", strategy, w, err)
		}
	}

	samples := make(map[string][]time.Duration, len(operations))
	for iter := range r.cfg.Iterations {
		if bar != nil {
			bar.Describe(fmt.Sprintf("Testing: %s", strategy))
		}

		durations, err := r.runOnce(ctx, agg)
		if err != nil {
			return StrategyResult{Name: strategy}, fmt.Errorf("%s iteration %d: %w", strategy, iter, err)
		}
		for op, d := range durations {
			samples[op] = append(samples[op], d)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	result := StrategyResult{Name: strategy}
	for _, op := range operations {
		s := summarize(samples[op.name])
		result.Ops = append(result.Ops, OpResult{
			Op:         op.name,
			Summary:    s,
			Sequential: r.ref.durations[op.name],
		})
		result.Total += s.Mean
	}

	r.log.Debug("strategy done", "strategy", strategy, "total", result.Total)
	return result, nil
}

func (r *Runner) runOnce(ctx context.Context, agg *iterative.Aggregator) (map[string]time.Duration, error) {
	durations := make(map[string]time.Duration, len(operations))
	for _, op := range operations {
		start := time.Now()
		got, err := op.run(ctx, agg, r.cfg.Threads, r.values, r.cfg.Stride)
		durations[op.name] = time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.name, err)
		}
		if want := r.ref.results[op.name]; got != want {
			return nil, fmt.Errorf("%s: got %v, want %v: %w", op.name, got, want, ErrMismatch)
		}
	}
	return durations, nil
}

func makeProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Testing strategies"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
