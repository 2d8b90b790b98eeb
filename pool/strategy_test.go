package pool

import (
	"context"
	"testing"
)

// strategyConfig defines a test configuration for a queue strategy
type strategyConfig struct {
	name string
	opts []WorkerPoolOption
}

// getAllStrategies returns every queue the pool can run on
func getAllStrategies() []strategyConfig {
	return []strategyConfig{
		{
			name: "FIFO",
			opts: []WorkerPoolOption{WithFIFOQueue()},
		},
		{
			name: "MPMC",
			opts: []WorkerPoolOption{WithMPMCQueue()},
		},
		{
			name: "MPMCSmallRing",
			opts: []WorkerPoolOption{WithMPMCQueue(WithQueueCapacity(8))},
		},
	}
}

// getAllStrategiesWithOpts returns all strategies with additional options
func getAllStrategiesWithOpts(additionalOpts ...WorkerPoolOption) []strategyConfig {
	baseStrategies := getAllStrategies()
	for i := range baseStrategies {
		baseStrategies[i].opts = append(baseStrategies[i].opts, additionalOpts...)
	}
	return baseStrategies
}

// runStrategyTest runs testFunc once per strategy against a fresh pool of
// workerCount workers, shutting the pool down afterwards.
func runStrategyTest(t *testing.T, testFunc func(t *testing.T, wp *WorkerPool), workerCount int, additionalOpts ...WorkerPoolOption) {
	t.Helper()
	for _, strategy := range getAllStrategiesWithOpts(additionalOpts...) {
		t.Run(strategy.name, func(t *testing.T) {
			wp, err := NewWorkerPool(workerCount, strategy.opts...)
			if err != nil {
				t.Fatalf("NewWorkerPool: %v", err)
			}
			defer func() {
				if !wp.IsShutdown() {
					if err := wp.Shutdown(); err != nil {
						t.Errorf("Shutdown: %v", err)
					}
				}
			}()
			testFunc(t, wp)
		})
	}
}

func double(_ context.Context, x int) (int, error) {
	return x * 2, nil
}

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}
