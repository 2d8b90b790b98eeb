package iterative

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/anbtrfl/iterpar/pool"
)

var (
	ErrEmptyInput     = errors.New("no elements to aggregate")
	ErrInvalidThreads = errors.New("thread count must be positive")
	ErrInvalidStride  = errors.New("stride must be positive")
)

// view exposes every stride-th element of values as a dense sequence
// without copying it.
type view[T any] struct {
	values []T
	stride int
}

func (v view[T]) at(i int) T {
	return v.values[i*v.stride]
}

// source maps a logical index back to its position in values.
func (v view[T]) source(i int) int {
	return i * v.stride
}

func validate(threads, stride int) error {
	if threads <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreads, threads)
	}
	if stride <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidStride, stride)
	}
	return nil
}

// reduce runs local over every partition of the strided selection with the
// aggregator's strategy, then combines the partials in partition order with
// merge on the calling goroutine.
func reduce[T, A any](
	ctx context.Context,
	a *Aggregator,
	op string,
	threads int,
	values []T,
	stride int,
	local func(ctx context.Context, v view[T], p Partition) (A, error),
	merge func(partials []A) (A, error),
) (A, error) {
	var zero A
	if err := validate(threads, stride); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	v := view[T]{values: values, stride: stride}
	plan := Plan(Selected(len(values), stride), threads)
	a.log.Debug("aggregate", "op", op, "elements", len(values), "stride", stride, "partitions", len(plan))

	partials := make([]A, len(plan))
	jobs := make([]job, len(plan))
	for i, p := range plan {
		jobs[i] = func(ctx context.Context) error {
			r, err := local(ctx, v, p)
			partials[i] = r
			return err
		}
	}

	if err := a.exec.run(ctx, jobs); err != nil {
		return zero, err
	}
	return merge(partials)
}

// scan calls visit for each logical index of p in order until visit returns
// false. The context is checked before the first element and then every
// checkInterval elements. A panic in visit is returned as a *pool.TaskError
// naming the element's position in the original slice.
func scan[T any](ctx context.Context, checkInterval int, v view[T], p Partition, visit func(x T) bool) (err error) {
	i := p.Low
	defer func() {
		if r := recover(); r != nil {
			err = panicAt(v.source(i), r)
		}
	}()

	for ; i < p.High; i++ {
		if (i-p.Low)%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return pool.Interrupted(err)
			}
		}
		if !visit(v.at(i)) {
			return nil
		}
	}
	return nil
}

func panicAt(index int, r any) error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &pool.TaskError{Index: index, Err: &pool.PanicError{Value: r, Stack: buf[:n]}}
}
