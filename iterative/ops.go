package iterative

import (
	"context"
	"fmt"
)

// candidate is a partition's best element together with its position in the
// original slice.
type candidate[T any] struct {
	index int
	value T
}

// Maximum returns the greatest of values[0], values[stride], values[2*stride]
// and so on according to cmp, which must return a positive number when x is
// greater than y. Among equal elements the one with the lowest index wins.
//
// Each of the threads partitions finds its local maximum; the maxima are then
// compared with the same cmp on the calling goroutine.
//
// Returns:
//   - ErrEmptyInput when no element is selected
//   - ErrInvalidThreads or ErrInvalidStride for a non-positive argument
//   - *pool.TaskError when cmp panics
//   - *pool.InterruptedError when ctx ends before all partitions finish
//
// Example:
//
//	longest, err := iterative.Maximum(ctx, agg, 8, words, func(x, y string) int {
//	    return cmp.Compare(len(x), len(y))
//	}, 1)
func Maximum[T any](ctx context.Context, a *Aggregator, threads int, values []T, cmp func(x, y T) int, stride int) (T, error) {
	var zero T
	if err := validate(threads, stride); err != nil {
		return zero, fmt.Errorf("maximum: %w", err)
	}
	if len(values) == 0 {
		return zero, ErrEmptyInput
	}

	local := func(ctx context.Context, v view[T], p Partition) (candidate[T], error) {
		best := candidate[T]{index: v.source(p.Low), value: v.at(p.Low)}
		i := p.Low
		err := scan(ctx, a.checkInterval, v, p, func(x T) bool {
			if i > p.Low && cmp(x, best.value) > 0 {
				best = candidate[T]{index: v.source(i), value: x}
			}
			i++
			return true
		})
		return best, err
	}

	merge := func(partials []candidate[T]) (best candidate[T], err error) {
		cur := 0
		defer func() {
			if r := recover(); r != nil {
				err = panicAt(partials[cur].index, r)
			}
		}()

		best = partials[0]
		for cur = 1; cur < len(partials); cur++ {
			if cmp(partials[cur].value, best.value) > 0 {
				best = partials[cur]
			}
		}
		return best, nil
	}

	best, err := reduce(ctx, a, "maximum", threads, values, stride, local, merge)
	if err != nil {
		return zero, err
	}
	return best.value, nil
}

// Minimum returns the least selected element according to cmp. It is
// Maximum with the comparison reversed, so ties also go to the lowest index.
func Minimum[T any](ctx context.Context, a *Aggregator, threads int, values []T, cmp func(x, y T) int, stride int) (T, error) {
	return Maximum(ctx, a, threads, values, func(x, y T) int { return cmp(y, x) }, stride)
}

// All reports whether pred holds for every selected element. It is true for
// an empty selection. A partition stops at its first failing element.
func All[T any](ctx context.Context, a *Aggregator, threads int, values []T, pred func(T) bool, stride int) (bool, error) {
	local := func(ctx context.Context, v view[T], p Partition) (bool, error) {
		ok := true
		err := scan(ctx, a.checkInterval, v, p, func(x T) bool {
			ok = pred(x)
			return ok
		})
		return ok, err
	}

	merge := func(partials []bool) (bool, error) {
		for _, ok := range partials {
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}

	return reduce(ctx, a, "all", threads, values, stride, local, merge)
}

// Any reports whether pred holds for at least one selected element, computed
// as the negation of All with the negated predicate. It is false for an empty
// selection.
func Any[T any](ctx context.Context, a *Aggregator, threads int, values []T, pred func(T) bool, stride int) (bool, error) {
	all, err := All(ctx, a, threads, values, func(x T) bool { return !pred(x) }, stride)
	if err != nil {
		return false, err
	}
	return !all, nil
}

// Count returns the number of selected elements satisfying pred.
func Count[T any](ctx context.Context, a *Aggregator, threads int, values []T, pred func(T) bool, stride int) (int, error) {
	local := func(ctx context.Context, v view[T], p Partition) (int, error) {
		n := 0
		err := scan(ctx, a.checkInterval, v, p, func(x T) bool {
			if pred(x) {
				n++
			}
			return true
		})
		return n, err
	}

	merge := func(partials []int) (int, error) {
		total := 0
		for _, n := range partials {
			total += n
		}
		return total, nil
	}

	return reduce(ctx, a, "count", threads, values, stride, local, merge)
}
