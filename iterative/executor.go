package iterative

import (
	"context"
	"errors"
	"sync"

	"github.com/anbtrfl/iterpar/pool"
)

// job is the first-stage reduction of one partition. It writes its partial
// result into a slot owned by the caller.
type job func(ctx context.Context) error

// executor runs every job of one aggregation and joins them.
type executor interface {
	run(ctx context.Context, jobs []job) error
	name() string
}

// goroutineExecutor starts one goroutine per job and joins all of them.
type goroutineExecutor struct{}

func (goroutineExecutor) name() string { return "goroutines" }

func (goroutineExecutor) run(ctx context.Context, jobs []job) error {
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = j(ctx)
		}()
	}
	wg.Wait()

	return joinErrors(errs)
}

// poolExecutor submits the jobs as a single Map call on a shared pool.
type poolExecutor struct {
	pool *pool.WorkerPool
}

func (e poolExecutor) name() string { return "pool" }

func (e poolExecutor) run(ctx context.Context, jobs []job) error {
	results, err := pool.Map(ctx, e.pool, func(ctx context.Context, j job) (struct{}, error) {
		return struct{}{}, j(ctx)
	}, jobs)
	if err != nil {
		return err
	}

	errs := make([]error, results.Len())
	for i := range errs {
		_, err := results.Get(i)
		// Map wraps each failure with the partition index; the job's own
		// error already names the element.
		if te, ok := err.(*pool.TaskError); ok {
			err = te.Err
		}
		errs[i] = err
	}
	return joinErrors(errs)
}

// joinErrors reports the failure of the lowest partition that failed for a
// reason other than interruption. Failing that, all interruptions are folded
// into one *pool.InterruptedError.
func joinErrors(errs []error) error {
	var interrupts []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, pool.ErrInterrupted) {
			interrupts = append(interrupts, err)
			continue
		}
		return err
	}
	return pool.JoinInterrupts(interrupts...)
}
