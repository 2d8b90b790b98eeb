package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/anbtrfl/iterpar/internal/scheduler"
	"github.com/anbtrfl/iterpar/internal/types"
)

// Map applies f to every element of items on the pool's workers and waits for
// all of them. Outcomes are returned in the order of items regardless of the
// order in which workers finished them.
//
// A failure of f on one element is recorded for that element only (see
// Results.Get); it does not cut the call short.
//
// Parameters:
//   - ctx: Cancels the wait; also the parent of the context passed to f
//   - wp: The pool to run on
//   - f: Function applied to each element
//   - items: Input elements
//
// Returns:
//   - *Results: One outcome per element, in input order
//   - error: ErrPoolClosed if the pool was shut down before the call,
//     *InterruptedError if ctx ended or the pool shut down while submitting
//     or waiting, a wrapped ErrQueueFull if a bounded queue had no room
//
// Example:
//
//	results, err := Map(ctx, wp, func(ctx context.Context, s string) (int, error) {
//	    return strconv.Atoi(s)
//	}, []string{"1", "x", "3"})
//	n, err := results.Get(1) // err is a *TaskError wrapping the parse error
func Map[T any, R any](ctx context.Context, wp *WorkerPool, f MapFunc[T, R], items []T) (*Results[R], error) {
	if wp.shutdown.Load() {
		return nil, ErrPoolClosed
	}

	outcomes := make([]types.Outcome[R], len(items))
	if len(items) == 0 {
		return &Results[R]{outcomes: outcomes}, nil
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(wp.lifetime, cancel)
	defer stop()

	callID := uuid.New()
	latch := types.NewLatch(len(items))
	tasks := make([]*types.Task, 0, len(items))

	for i, item := range items {
		if callCtx.Err() != nil {
			break
		}

		task := types.NewTask(wp.taskIDCounter.Add(1), callID, i,
			func() error {
				v, err := processWithRecovery(callCtx, f, item)
				if err != nil {
					err = &TaskError{Index: i, Err: err}
					outcomes[i] = types.Failure[R](err)
					return err
				}
				outcomes[i] = types.Success(v)
				return nil
			},
			func(cause error) {
				outcomes[i] = types.Failure[R](cause)
			},
			latch.Done,
		)

		if err := wp.queue.Enqueue(callCtx, task); err != nil {
			if errors.Is(err, ErrQueueFull) {
				abandon(tasks, err)
				return nil, fmt.Errorf("submit element %d: %w", i, err)
			}
			// cancelled or shut down while submitting
			interrupted := Interrupted(wp.interruptCause(ctx, err))
			abandon(tasks, interrupted)
			wp.log.Debug("map interrupted while submitting", "call", callID, "submitted", i, "total", len(items), "cause", interrupted.Cause)
			return nil, interrupted
		}
		tasks = append(tasks, task)
	}

	if err := latch.Wait(callCtx); err != nil {
		interrupted := Interrupted(wp.interruptCause(ctx, err))
		abandon(tasks, interrupted)
		wp.log.Debug("map interrupted", "call", callID, "completed", latch.Count(), "total", len(items), "cause", interrupted.Cause)
		return nil, interrupted
	}

	return &Results[R]{outcomes: outcomes}, nil
}

// MapValues is Map followed by Results.Values: it returns the values of all
// elements and the first element failure in input order, if any.
func MapValues[T any, R any](ctx context.Context, wp *WorkerPool, f MapFunc[T, R], items []T) ([]R, error) {
	results, err := Map(ctx, wp, f, items)
	if err != nil {
		return nil, err
	}
	return results.Values()
}

// abandon completes every still-pending task with err so that workers drop
// them when they reach the front of the queue.
func abandon(tasks []*types.Task, err error) {
	for _, t := range tasks {
		t.Abandon(err)
	}
}

// interruptCause names why a wait in a Map call was cut short: the caller's
// own context, or the pool shutting down under it.
func (wp *WorkerPool) interruptCause(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if wp.lifetime.Err() != nil || errors.Is(err, scheduler.ErrQueueClosed) {
		return ErrPoolClosed
	}
	return err
}

// Results holds the outcomes of one Map call in input order.
type Results[R any] struct {
	outcomes []types.Outcome[R]
}

// Len returns the number of elements.
func (r *Results[R]) Len() int {
	return len(r.outcomes)
}

// Get returns the value produced for element i, or the *TaskError it failed
// with. It panics if i is out of range.
func (r *Results[R]) Get(i int) (R, error) {
	return r.outcomes[i].Get()
}

// Failed returns the indices of the failed elements in ascending order.
func (r *Results[R]) Failed() []int {
	var failed []int
	for i, o := range r.outcomes {
		if !o.IsSuccess() {
			failed = append(failed, i)
		}
	}
	return failed
}

// Err returns the failure of the lowest-indexed failed element, or nil.
func (r *Results[R]) Err() error {
	for _, o := range r.outcomes {
		if !o.IsSuccess() {
			return o.Err()
		}
	}
	return nil
}

// Values returns every element's value (the zero value for failed elements)
// along with the first failure in input order.
func (r *Results[R]) Values() ([]R, error) {
	values := make([]R, len(r.outcomes))
	var firstErr error
	for i, o := range r.outcomes {
		v, err := o.Get()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		values[i] = v
	}
	return values, firstErr
}
