package pool

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/anbtrfl/iterpar/internal/scheduler"
)

// WorkerPool is a fixed set of long-lived workers consuming one shared task
// queue. It is safe for concurrent use by any number of Map callers.
//
// The zero value is not usable; create pools with NewWorkerPool.
type WorkerPool struct {
	conf    *workerPoolConfig
	workers int
	queue   scheduler.Queue
	log     *log.Logger

	// lifetime is cancelled by Shutdown; workers and waiting Map calls watch it
	lifetime context.Context
	cancel   context.CancelFunc
	group    errgroup.Group

	taskIDCounter atomic.Int64
	shutdown      atomic.Bool
}

// NewWorkerPool starts workerCount workers and returns the pool. It does not
// wait for any work to arrive.
//
// Parameters:
//   - workerCount: Number of workers, must be positive
//   - opts: Queue selection, rate limiting, affinity, logging and hooks
//
// Returns:
//   - *WorkerPool: A running pool; call Shutdown to stop it
//   - error: ErrInvalidWorkerCount if workerCount <= 0
//
// Example:
//
//	wp, err := NewWorkerPool(8, WithMPMCQueue(), WithRateLimit(100, 10))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer wp.Shutdown()
func NewWorkerPool(workerCount int, opts ...WorkerPoolOption) (*WorkerPool, error) {
	if workerCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workerCount)
	}

	cfg := createConfig(opts...)
	ctx, cancel := context.WithCancel(context.Background())

	wp := &WorkerPool{
		conf:     cfg,
		workers:  workerCount,
		queue:    scheduler.NewQueue(cfg.queue),
		log:      cfg.logger.With("component", "pool"),
		lifetime: ctx,
		cancel:   cancel,
	}

	for i := range workerCount {
		wp.group.Go(func() error {
			return wp.worker(ctx, i)
		})
	}

	wp.log.Debug("pool started", "workers", workerCount, "queue", cfg.queue.Type, "affinity", cfg.affinity)
	return wp, nil
}

// Shutdown signals every worker to stop and waits until all of them have
// exited. Tasks still queued are abandoned; a task already running finishes.
// Map calls waiting on abandoned tasks return an *InterruptedError caused by
// ErrPoolClosed.
//
// Shutdown must not race with new Map calls. Calling it again returns
// ErrPoolClosed.
func (wp *WorkerPool) Shutdown() error {
	if !wp.shutdown.CompareAndSwap(false, true) {
		return ErrPoolClosed
	}

	wp.cancel()
	wp.queue.Close()

	err := wp.group.Wait()
	wp.log.Debug("pool stopped", "abandoned", wp.queue.Len())
	return err
}

// WorkerCount returns the number of workers the pool was created with.
func (wp *WorkerPool) WorkerCount() int {
	return wp.workers
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (wp *WorkerPool) Pending() int {
	return wp.queue.Len()
}

// IsShutdown reports whether Shutdown has been called.
func (wp *WorkerPool) IsShutdown() bool {
	return wp.shutdown.Load()
}
