package pool

import (
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/anbtrfl/iterpar/internal/scheduler"
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	queue           scheduler.Config
	rateLimiter     *rate.Limiter
	affinity        bool
	logger          *log.Logger
	beforeTaskStart func(TaskInfo)
	onTaskEnd       func(TaskInfo, error)
}

func createConfig(opts ...WorkerPoolOption) *workerPoolConfig {
	cfg := &workerPoolConfig{
		queue: scheduler.Config{Type: scheduler.QueueFIFO},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}

// WithFIFOQueue backs the pool with an unbounded queue guarded by a mutex and
// a condition variable. This is the default.
func WithFIFOQueue() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.queue = scheduler.Config{Type: scheduler.QueueFIFO}
	}
}

// MPMCOption configures the lock-free queue selected by WithMPMCQueue.
type MPMCOption func(*scheduler.Config)

// WithBoundedQueue caps the ring at capacity (rounded up to a power of two).
// Map fails with a wrapped ErrQueueFull when the ring is full.
func WithBoundedQueue(capacity int) MPMCOption {
	return func(c *scheduler.Config) {
		c.Bounded = true
		if capacity > 0 {
			c.Capacity = capacity
		}
	}
}

// WithQueueCapacity sets the ring size of an unbounded queue. Map waits for
// space when the ring is full, until its context ends or the pool shuts down.
func WithQueueCapacity(capacity int) MPMCOption {
	return func(c *scheduler.Config) {
		c.Bounded = false
		if capacity > 0 {
			c.Capacity = capacity
		}
	}
}

// WithMPMCQueue backs the pool with a lock-free multi-producer
// multi-consumer ring buffer. It suits many goroutines calling Map at once.
//
// Example:
//
//	NewWorkerPool(8, WithMPMCQueue(WithBoundedQueue(4096)))
func WithMPMCQueue(opts ...MPMCOption) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.queue = scheduler.Config{Type: scheduler.QueueMPMC}
		for _, opt := range opts {
			opt(&cfg.queue)
		}
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second.
// burst specifies the maximum number of tasks that can start in a burst.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker to its own OS thread and, where the
// platform supports it, pins that thread to a core.
func WithCPUAffinity() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.affinity = true
	}
}

// WithLogger sets the logger used for pool lifecycle events. The pool only
// logs at debug level. Defaults to a logger that discards everything.
func WithLogger(logger *log.Logger) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.logger = logger
	}
}

// WithBeforeTaskStart registers a hook called by the worker right before it
// runs a task. Hooks run on worker goroutines and must be safe for
// concurrent use.
func WithBeforeTaskStart(hook func(TaskInfo)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.beforeTaskStart = hook
	}
}

// WithOnTaskEnd registers a hook called after a task has run, with the error
// it failed with (nil on success).
func WithOnTaskEnd(hook func(TaskInfo, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.onTaskEnd = hook
	}
}
