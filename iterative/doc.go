// Package iterative implements parallel aggregations over slices: Maximum,
// Minimum, All, Any and Count.
//
// Every operation takes a thread count and a stride. Only the elements at
// indices 0, stride, 2*stride and so on take part; they are split into at
// most threads contiguous partitions, each partition is reduced on its own,
// and the partial results are combined in partition order.
//
// An Aggregator fixes how partitions run. New starts one goroutine per
// partition on every call; NewWithPool hands them to a shared pool.WorkerPool
// so that many concurrent aggregations share a bounded set of workers.
//
//	wp, _ := pool.NewWorkerPool(runtime.NumCPU())
//	defer wp.Shutdown()
//	agg := iterative.NewWithPool(wp)
//
//	n, err := iterative.Count(ctx, agg, 8, xs, func(x int) bool { return x%2 == 0 }, 1)
//
// Cancelling ctx stops partitions at their next check and the call returns a
// *pool.InterruptedError. When several partitions are interrupted, the first
// cause is reported and the others are kept as suppressed errors.
package iterative
