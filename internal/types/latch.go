package types

import (
	"context"
	"sync"
)

// Latch is a counting barrier owned by a single Map call. Workers call Done
// once per finished task; the submitter blocks in Wait until the expected
// number of completions has been observed.
type Latch struct {
	mu       sync.Mutex
	count    int
	target   int
	released chan struct{}
}

// NewLatch creates a latch that releases after target calls to Done.
// A latch with a non-positive target is released immediately.
func NewLatch(target int) *Latch {
	l := &Latch{
		target:   target,
		released: make(chan struct{}),
	}
	if target <= 0 {
		close(l.released)
	}
	return l
}

// Done records one completion. Calls past the target are ignored.
func (l *Latch) Done() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count >= l.target {
		return
	}
	l.count++
	if l.count == l.target {
		close(l.released)
	}
}

// Count returns the number of completions recorded so far.
func (l *Latch) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Wait blocks until the latch is released or ctx is done.
func (l *Latch) Wait(ctx context.Context) error {
	select {
	case <-l.released:
		return nil
	default:
	}

	select {
	case <-l.released:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
