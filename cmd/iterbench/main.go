// Command iterbench measures the parallel aggregations of package iterative
// under each execution strategy and checks every result against a
// sequential reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, runs the selected strategies and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("iterbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFlag := fs.String("config", "", "Load settings from a .toml, .yaml or .yml file; flags override it")
	fs.IntVar(&cfg.Size, "size", cfg.Size, "Number of generated elements")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "Partitions per aggregation")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Pool workers (0 = one per CPU)")
	fs.IntVar(&cfg.Stride, "stride", cfg.Stride, "Aggregate every stride-th element")
	fs.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Measured iterations per strategy")
	fs.IntVar(&cfg.Warmup, "warmup", cfg.Warmup, "Warmup iterations before measurement")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the generated data")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Run a single strategy (Goroutines, Pool/FIFO, Pool/MPMC). If empty, runs all")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configFlag != "" {
		// flags given on the command line win over the file
		overrides := cfg
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		fileCfg := DefaultConfig()
		if err := LoadConfig(*configFlag, &fileCfg); err != nil {
			_, _ = red.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		cfg = mergeFlags(fileCfg, overrides, set)
	}

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	logger.Debug("configuration", "size", cfg.Size, "threads", cfg.Threads, "workers", cfg.WorkerCount(), "stride", cfg.Stride)

	// the schema restricts Strategy to known names
	strategies := allStrategies
	if cfg.Strategy != "" {
		strategies = []string{cfg.Strategy}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printConfiguration(stdout, cfg, strategies)

	values := generateValues(cfg.Size, cfg.Seed)
	ref := computeReference(values, cfg.Stride)

	_, _ = bold.Fprintln(stdout, "Running Benchmarks...")
	fmt.Fprintln(stdout)

	bar := makeProgressBar(len(strategies)*cfg.Iterations, stderr)
	runner := newRunner(cfg, values, ref, logger)

	results := make([]StrategyResult, 0, len(strategies))
	for _, strategy := range strategies {
		result, err := runner.Run(ctx, strategy, bar)
		if err != nil {
			logger.Error("benchmark failed", "strategy", strategy, "err", err)
			return 1
		}
		results = append(results, result)
		time.Sleep(50 * time.Millisecond)
	}
	_ = bar.Finish()

	printResults(stdout, results)
	return 0
}

// mergeFlags returns base with every field whose flag was set on the command
// line taken from flags.
func mergeFlags(base, flags Config, set map[string]bool) Config {
	if set["size"] {
		base.Size = flags.Size
	}
	if set["threads"] {
		base.Threads = flags.Threads
	}
	if set["workers"] {
		base.Workers = flags.Workers
	}
	if set["stride"] {
		base.Stride = flags.Stride
	}
	if set["iterations"] {
		base.Iterations = flags.Iterations
	}
	if set["warmup"] {
		base.Warmup = flags.Warmup
	}
	if set["seed"] {
		base.Seed = flags.Seed
	}
	if set["strategy"] {
		base.Strategy = flags.Strategy
	}
	if set["log-level"] {
		base.LogLevel = flags.LogLevel
	}
	if set["log-format"] {
		base.LogFormat = flags.LogFormat
	}
	return base
}
