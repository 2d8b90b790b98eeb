package scheduler

import (
	"context"
	"sync"

	"github.com/anbtrfl/iterpar/internal/types"
)

const defaultFIFOCapacity = 64

// fifoQueue is an unbounded ring of tasks guarded by a mutex. Consumers park
// on cond while the ring is empty; every Enqueue signals one of them.
type fifoQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ring   []*types.Task
	head   int
	size   int
	closed bool
}

func newFIFOQueue(capacity int) *fifoQueue {
	if capacity <= 0 {
		capacity = defaultFIFOCapacity
	}
	q := &fifoQueue{
		ring: make([]*types.Task, nextPowerOfTwo(capacity)),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue never waits: the ring grows instead.
func (q *fifoQueue) Enqueue(ctx context.Context, task *types.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if q.size == len(q.ring) {
		q.grow()
	}
	q.ring[(q.head+q.size)&(len(q.ring)-1)] = task
	q.size++
	q.cond.Signal()
	return nil
}

func (q *fifoQueue) Dequeue(ctx context.Context) (*types.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Wake parked consumers when ctx ends. The callback takes the lock, so it
	// cannot fire between the ctx check below and cond.Wait.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.cond.Wait()
	}

	task := q.ring[q.head]
	q.ring[q.head] = nil
	q.head = (q.head + 1) & (len(q.ring) - 1)
	q.size--
	return task, nil
}

func (q *fifoQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *fifoQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// grow doubles the ring, unrolling it so head starts at zero. Caller holds mu.
func (q *fifoQueue) grow() {
	ring := make([]*types.Task, len(q.ring)*2)
	n := copy(ring, q.ring[q.head:])
	copy(ring[n:], q.ring[:q.head])
	q.ring = ring
	q.head = 0
}
