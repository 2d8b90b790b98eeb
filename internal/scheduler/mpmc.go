package scheduler

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/anbtrfl/iterpar/internal/types"
)

const (
	// Cache line size for padding to prevent false sharing
	cacheLinePadding = 128
	// Default ring capacity when none is configured
	defaultMPMCCapacity = 65536
	// Maximum spin attempts before yielding
	maxSpinAttempts = 10
)

// mpmcSlot represents a single slot in the ring buffer
type mpmcSlot struct {
	// Sequence number for synchronization
	sequence uint64
	task     *types.Task
	// Padding to prevent false sharing between slots
	_ [cacheLinePadding - 16]byte
}

// mpmcQueue is a lock-free multi-producer multi-consumer ring of tasks.
//
// Each slot carries a sequence number: a producer may fill slot tail when its
// sequence equals tail, a consumer may take slot head when its sequence equals
// head+1. Head and tail only move by CAS, so a task is claimed by one consumer.
type mpmcQueue struct {
	ring []mpmcSlot
	// Capacity mask (capacity - 1) for fast modulo
	mask uint64

	// Head and tail positions with padding to prevent false sharing
	_    [cacheLinePadding]byte
	head uint64
	_    [cacheLinePadding - 8]byte
	tail uint64
	_    [cacheLinePadding - 8]byte

	closed atomic.Bool

	// Wake-up tokens for parked consumers (buffered, never closed)
	notifyC chan struct{}

	// Closed on Close
	closeC chan struct{}

	bounded bool
}

// newMPMCQueue creates a ring with the given capacity rounded up to a power
// of two. An unbounded queue waits for space when the ring is full; a bounded
// one rejects the task.
func newMPMCQueue(capacity int, bounded bool) *mpmcQueue {
	if capacity <= 0 {
		capacity = defaultMPMCCapacity
	}

	capacity = nextPowerOfTwo(capacity)
	ring := make([]mpmcSlot, capacity)

	for i := range ring {
		ring[i].sequence = uint64(i) // #nosec G115 -- i is loop index within valid ring bounds
	}

	return &mpmcQueue{
		ring:    ring,
		mask:    uint64(capacity - 1), // #nosec G115 -- capacity is validated positive, no overflow possible
		bounded: bounded,
		notifyC: make(chan struct{}, 1),
		closeC:  make(chan struct{}),
	}
}

// Enqueue claims the tail slot. When the ring is full a bounded queue fails
// with ErrQueueFull and an unbounded one spins until a consumer frees a slot
// or ctx ends.
func (q *mpmcQueue) Enqueue(ctx context.Context, task *types.Task) error {
	spinCount := 0

	for {
		if q.closed.Load() {
			return ErrQueueClosed
		}

		_, tail, slot, diff := q.load(false)
		if diff == 0 {
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				slot.task = task
				atomic.StoreUint64(&slot.sequence, tail+1)
				q.notify()
				return nil
			}
			continue
		}

		if diff < 0 {
			if q.bounded {
				return ErrQueueFull
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		spinCount++
		if spinCount > maxSpinAttempts {
			runtime.Gosched()
			spinCount = 0
		}
	}
}

func (q *mpmcQueue) Dequeue(ctx context.Context) (*types.Task, error) {
	spinCount := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q.drained() {
			return nil, ErrQueueClosed
		}

		head, _, slot, diff := q.load(true)
		if diff == 0 {
			if task, ok := q.take(head, slot); ok {
				// Pass the token on so a second parked consumer is not left
				// sleeping while tasks remain.
				if q.Len() > 0 {
					q.notify()
				}
				return task, nil
			}
			continue
		}

		spinCount++
		if spinCount < maxSpinAttempts {
			runtime.Gosched()
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.closeC:
			spinCount = 0
		case <-q.notifyC:
			spinCount = 0
		}
	}
}

func (q *mpmcQueue) take(head uint64, slot *mpmcSlot) (*types.Task, bool) {
	if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
		task := slot.task
		slot.task = nil
		// Release the slot to producers
		// if head is N, next sequence should be N + capacity
		atomic.StoreUint64(&slot.sequence, head+q.mask+1)
		return task, true
	}
	return nil, false
}

func (q *mpmcQueue) notify() {
	select {
	case q.notifyC <- struct{}{}:
	default:
	}
}

// drained reports whether the queue is closed and empty
func (q *mpmcQueue) drained() bool {
	if !q.closed.Load() {
		return false
	}
	return atomic.LoadUint64(&q.head) >= atomic.LoadUint64(&q.tail)
}

// load atomically loads head and tail positions and the corresponding slot
// Also computes the difference between slot sequence and expected sequence
func (q *mpmcQueue) load(ishead bool) (head uint64, tail uint64, slot *mpmcSlot, diff int64) {
	head = atomic.LoadUint64(&q.head)
	tail = atomic.LoadUint64(&q.tail)

	pos := tail
	if ishead {
		pos = head
	}

	slot = &q.ring[pos&q.mask]
	seq := atomic.LoadUint64(&slot.sequence)

	if ishead {
		diff = int64(seq) - int64(head+1) // #nosec G115 -- intentional conversion for sequence comparison
	} else {
		diff = int64(seq) - int64(tail) // #nosec G115 -- intentional conversion for sequence comparison
	}

	return
}

// Len returns the approximate number of tasks in the queue
func (q *mpmcQueue) Len() int {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)

	if tail > head {
		return int(tail - head) // #nosec G115 -- tail > head guarantees result fits in int
	}
	return 0
}

func (q *mpmcQueue) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.closeC)
	}
}
