package pool

import (
	"context"

	"github.com/anbtrfl/iterpar/internal/cpu"
	"github.com/anbtrfl/iterpar/internal/types"
)

// worker takes tasks from the shared queue until the pool is shut down.
// Tasks abandoned by their caller while queued are skipped.
func (wp *WorkerPool) worker(ctx context.Context, id int) error {
	if wp.conf.affinity {
		release, err := cpu.BindWorker(id)
		if err != nil {
			wp.log.Debug("cpu affinity not applied", "worker", id, "err", err)
		}
		defer release()
	}

	for {
		t, err := wp.queue.Dequeue(ctx)
		if err != nil {
			return nil
		}

		if t.State() != types.TaskPending {
			continue
		}

		if wp.conf.rateLimiter != nil {
			if err := wp.conf.rateLimiter.Wait(ctx); err != nil {
				t.Abandon(Interrupted(ErrPoolClosed))
				return nil
			}
		}

		if !t.Start() {
			continue
		}
		wp.run(t, id)
	}
}

func (wp *WorkerPool) run(t *types.Task, worker int) {
	info := TaskInfo{CallID: t.Call, TaskID: t.Id, Index: t.Index, Worker: worker}

	if wp.conf.beforeTaskStart != nil {
		wp.conf.beforeTaskStart(info)
	}

	err := t.Execute()
	if wp.conf.onTaskEnd != nil {
		wp.conf.onTaskEnd(info, err)
	}
}
