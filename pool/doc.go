// Package pool provides a fixed-size worker pool that applies functions to
// slices of inputs and hands back results in input order.
//
// A WorkerPool owns a set of long-lived workers consuming one shared FIFO
// queue. Any number of goroutines may call Map on the same pool at the same
// time; their tasks interleave in the queue, but each call receives its own
// results in the order of its own input.
//
// # Basic Usage
//
//	wp, err := pool.NewWorkerPool(4)
//	if err != nil {
//	    return err
//	}
//	defer wp.Shutdown()
//
//	results, err := pool.Map(ctx, wp, func(ctx context.Context, n int) (int, error) {
//	    return n * 2, nil
//	}, []int{1, 2, 3, 4})
//	if err != nil {
//	    return err // interrupted or pool closed
//	}
//	v, err := results.Get(2) // 6, nil
//
// # Per-element Failures
//
// A failing element does not fail the call. Errors returned by the function,
// and panics raised in it, are captured as that element's outcome and only
// surface when the element is read:
//
//	results, _ := pool.Map(ctx, wp, parse, inputs)
//	for i := range results.Len() {
//	    v, err := results.Get(i) // err is a *TaskError for failed elements
//	    ...
//	}
//
// Values returns every value together with the first failure in index order,
// and MapValues combines Map and Values for callers that want fail-on-any.
//
// # Interruption
//
// Map waits until every task of the call has completed. If ctx ends first,
// Map returns an *InterruptedError (errors.Is(err, ErrInterrupted)), tasks of
// that call which have not started yet are dropped, and the context passed to
// the running ones is cancelled. Shutdown stops all workers; work still queued
// at that point is abandoned and never executed.
//
// # Configuration Options
//
//   - WithFIFOQueue(): mutex and condition-variable queue (default)
//   - WithMPMCQueue(opts...): lock-free ring buffer queue
//   - WithRateLimit(tasksPerSecond, burst): throttle task starts
//   - WithCPUAffinity(): lock each worker to an OS thread pinned to a core
//   - WithLogger(logger): debug logging of pool lifecycle
//   - WithBeforeTaskStart / WithOnTaskEnd: per-task hooks
package pool
