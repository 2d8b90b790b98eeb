package benchmarks

import (
	"testing"

	"github.com/anbtrfl/iterpar/iterative"
	"github.com/anbtrfl/iterpar/pool"
)

// strategyConfig defines a benchmark configuration for a queue strategy
type strategyConfig struct {
	name string
	opts []pool.WorkerPoolOption
}

// getAllStrategies returns all pool queue strategies for benchmarking
func getAllStrategies() []strategyConfig {
	return []strategyConfig{
		{name: "FIFO", opts: []pool.WorkerPoolOption{pool.WithFIFOQueue()}},
		{name: "MPMC", opts: []pool.WorkerPoolOption{pool.WithMPMCQueue()}},
	}
}

// newPool creates a pool that is shut down when the benchmark ends.
func newPool(b *testing.B, workers int, opts ...pool.WorkerPoolOption) *pool.WorkerPool {
	b.Helper()
	wp, err := pool.NewWorkerPool(workers, opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = wp.Shutdown() })
	return wp
}

type aggregatorConfig struct {
	name string
	agg  *iterative.Aggregator
}

// getAllAggregators returns one aggregator per execution strategy.
func getAllAggregators(b *testing.B, workers int) []aggregatorConfig {
	b.Helper()
	aggs := []aggregatorConfig{{name: "Goroutines", agg: iterative.New()}}
	for _, s := range getAllStrategies() {
		aggs = append(aggs, aggregatorConfig{
			name: "Pool/" + s.name,
			agg:  iterative.NewWithPool(newPool(b, workers, s.opts...)),
		})
	}
	return aggs
}

func generateTasks(n int) []int {
	tasks := make([]int, n)
	for i := range tasks {
		tasks[i] = i
	}
	return tasks
}
