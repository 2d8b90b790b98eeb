package benchmarks

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/anbtrfl/iterpar/iterative"
	"github.com/anbtrfl/iterpar/pool"
)

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations int) pool.MapFunc[int, int] {
	return func(ctx context.Context, task int) (int, error) {
		result := 0
		for i := 0; i < iterations; i++ {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration) pool.MapFunc[int, int] {
	return func(ctx context.Context, task int) (int, error) {
		select {
		case <-time.After(delay):
			return task * 2, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// =============================================================================
// Map
// =============================================================================

func BenchmarkMap_CPUBound(b *testing.B) {
	tasks := generateTasks(1000)
	work := cpuBoundWork(1000)

	for _, workers := range []int{1, 4, runtime.NumCPU()} {
		for _, s := range getAllStrategies() {
			b.Run(fmt.Sprintf("%s/Workers=%d", s.name, workers), func(b *testing.B) {
				wp := newPool(b, workers, s.opts...)
				b.ReportAllocs()
				b.ResetTimer()
				for b.Loop() {
					if _, err := pool.Map(context.Background(), wp, work, tasks); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkMap_IOBound(b *testing.B) {
	tasks := generateTasks(200)
	work := ioBoundWork(100 * time.Microsecond)

	for _, s := range getAllStrategies() {
		b.Run(s.name, func(b *testing.B) {
			wp := newPool(b, 32, s.opts...)
			for b.Loop() {
				if _, err := pool.Map(context.Background(), wp, work, tasks); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkMap_ConcurrentCallers measures contention on the shared queue when
// many goroutines call Map on one pool.
func BenchmarkMap_ConcurrentCallers(b *testing.B) {
	tasks := generateTasks(100)
	work := cpuBoundWork(100)

	for _, callers := range []int{4, 16, 64} {
		for _, s := range getAllStrategies() {
			b.Run(fmt.Sprintf("%s/Callers=%d", s.name, callers), func(b *testing.B) {
				wp := newPool(b, runtime.NumCPU(), s.opts...)
				for b.Loop() {
					var wg sync.WaitGroup
					for range callers {
						wg.Add(1)
						go func() {
							defer wg.Done()
							if _, err := pool.Map(context.Background(), wp, work, tasks); err != nil {
								b.Error(err)
							}
						}()
					}
					wg.Wait()
				}
			})
		}
	}
}

// =============================================================================
// Aggregations
// =============================================================================

func benchValues(n int) []int64 {
	values := make([]int64, n)
	for i := range values {
		values[i] = rand.Int64()
	}
	return values
}

func BenchmarkMaximum(b *testing.B) {
	values := benchValues(1_000_000)
	ctx := context.Background()

	for _, a := range getAllAggregators(b, runtime.NumCPU()) {
		for _, threads := range []int{1, 4, runtime.NumCPU()} {
			b.Run(fmt.Sprintf("%s/Threads=%d", a.name, threads), func(b *testing.B) {
				for b.Loop() {
					if _, err := iterative.Maximum(ctx, a.agg, threads, values, cmp.Compare[int64], 1); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkCount_Strided(b *testing.B) {
	values := benchValues(1_000_000)
	ctx := context.Background()
	even := func(x int64) bool { return x%2 == 0 }

	for _, a := range getAllAggregators(b, runtime.NumCPU()) {
		for _, stride := range []int{1, 4, 16} {
			b.Run(fmt.Sprintf("%s/Stride=%d", a.name, stride), func(b *testing.B) {
				for b.Loop() {
					if _, err := iterative.Count(ctx, a.agg, runtime.NumCPU(), values, even, stride); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkAll_FullScan(b *testing.B) {
	values := benchValues(1_000_000)
	ctx := context.Background()
	always := func(int64) bool { return true }

	for _, a := range getAllAggregators(b, runtime.NumCPU()) {
		b.Run(a.name, func(b *testing.B) {
			for b.Loop() {
				if _, err := iterative.All(ctx, a.agg, runtime.NumCPU(), values, always, 1); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
