package scheduler

import (
	"context"
	"errors"

	"github.com/anbtrfl/iterpar/internal/types"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// QueueType selects the implementation backing the shared task queue.
type QueueType int

const (
	// QueueFIFO is a mutex-guarded ring with a condition variable.
	QueueFIFO QueueType = iota
	// QueueMPMC is a lock-free multi-producer multi-consumer ring buffer.
	QueueMPMC
)

func (q QueueType) String() string {
	switch q {
	case QueueFIFO:
		return "fifo"
	case QueueMPMC:
		return "mpmc"
	default:
		return "unknown"
	}
}

// Queue is the FIFO of pending tasks shared by every worker and every
// submitter of a pool. Each enqueued task is handed to exactly one Dequeue.
type Queue interface {
	// Enqueue appends a task and wakes one waiting consumer. A queue that
	// waits for space returns ctx.Err() when ctx ends first.
	// It fails with ErrQueueClosed after Close.
	Enqueue(ctx context.Context, task *types.Task) error

	// Dequeue removes the oldest task, blocking while the queue is empty.
	// It returns ctx.Err() when ctx is done and ErrQueueClosed once the
	// queue is closed and drained.
	Dequeue(ctx context.Context) (*types.Task, error)

	// Len returns the number of queued tasks. Approximate for lock-free queues.
	Len() int

	// Close rejects further enqueues and wakes every blocked consumer.
	Close()
}

// Config describes which queue to build.
type Config struct {
	Type QueueType

	// Bounded makes a full MPMC queue reject enqueues with ErrQueueFull
	// instead of waiting for space.
	Bounded bool

	// Capacity is the initial ring size. Zero selects a default.
	Capacity int
}

// NewQueue builds the queue described by conf.
func NewQueue(conf Config) Queue {
	switch conf.Type {
	case QueueMPMC:
		return newMPMCQueue(conf.Capacity, conf.Bounded)
	default:
		return newFIFOQueue(conf.Capacity)
	}
}

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	if n&(n-1) == 0 {
		return n
	}

	power := 1
	for power < n {
		power *= 2
	}
	return power
}
