package main

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of timing samples.
type Summary struct {
	N      int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	Median time.Duration
	P95    time.Duration
}

// summarize computes timing statistics. StdDev is zero for fewer than two
// samples.
func summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	xs := make([]float64, len(samples))
	for i, d := range samples {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)

	s := Summary{
		N:      len(xs),
		Min:    time.Duration(xs[0]),
		Max:    time.Duration(xs[len(xs)-1]),
		Mean:   time.Duration(stat.Mean(xs, nil)),
		Median: time.Duration(stat.Quantile(0.5, stat.Empirical, xs, nil)),
		P95:    time.Duration(stat.Quantile(0.95, stat.Empirical, xs, nil)),
	}
	if len(xs) > 1 {
		s.StdDev = time.Duration(stat.StdDev(xs, nil))
	}
	return s
}

// speedup returns how many times faster d is than baseline.
func speedup(baseline, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(baseline) / float64(d)
}
