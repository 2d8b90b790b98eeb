package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/anbtrfl/iterpar/iterative"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

func printConfiguration(w io.Writer, cfg Config, strategies []string) {
	_, _ = bold.Fprintln(w, "⚙️  Configuration:")
	fmt.Fprintf(w, "  Elements:         %s (stride %d, %s selected)\n",
		formatNumber(cfg.Size), cfg.Stride, formatNumber(iterative.Selected(cfg.Size, cfg.Stride)))
	fmt.Fprintf(w, "  Threads:          %d partitions per call\n", cfg.Threads)
	fmt.Fprintf(w, "  Pool workers:     %d (using %d CPU cores)\n", cfg.WorkerCount(), runtime.NumCPU())
	fmt.Fprintf(w, "  Iterations:       %d (+%d warmup)\n", cfg.Iterations, cfg.Warmup)
	fmt.Fprintf(w, "  Strategies:       %v\n", strategies)
	fmt.Fprintln(w)
}

// printResults ranks strategies by their total mean time and prints the
// ranking followed by per-operation details.
func printResults(w io.Writer, results []StrategyResult) {
	if len(results) == 0 {
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Total < results[j].Total
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	printRanking(w, results)
	printOperations(w, results)
}

func printRanking(w io.Writer, results []StrategyResult) {
	fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "📊 AGGREGATION RESULTS - Strategy Comparison")
	fmt.Fprintln(w)

	fastest := results[0].Total

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Strategy", "Total (mean)", "vs Fastest")

	for _, r := range results {
		rankIcon := fmt.Sprintf("%d", r.Rank)
		switch r.Rank {
		case 1:
			rankIcon = "🥇"
		case 2:
			rankIcon = "🥈"
		case 3:
			rankIcon = "🥉"
		}

		vsFastest := fmt.Sprintf("%.2fx", float64(r.Total)/float64(fastest))
		if r.Rank == 1 {
			vsFastest = "baseline"
		}

		_ = table.Append(rankIcon, r.Name, round(r.Total).String(), vsFastest)
	}
	_ = table.Render()
}

func printOperations(w io.Writer, results []StrategyResult) {
	fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "🔍 Per-operation timings")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Strategy", "Operation", "Mean", "StdDev", "Median", "P95", "Sequential", "Speedup")

	for _, r := range results {
		for _, op := range r.Ops {
			_ = table.Append(
				r.Name,
				op.Op,
				round(op.Summary.Mean).String(),
				round(op.Summary.StdDev).String(),
				round(op.Summary.Median).String(),
				round(op.Summary.P95).String(),
				round(op.Sequential).String(),
				formatSpeedup(speedup(op.Sequential, op.Summary.Mean)),
			)
		}
	}
	_ = table.Render()
}

func formatSpeedup(x float64) string {
	s := fmt.Sprintf("%.2fx", x)
	if x >= 1 {
		return green.Sprint(s)
	}
	return red.Sprint(s)
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
