package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHooksBasic checks that every element produces one start and one end event
func TestHooksBasic(t *testing.T) {
	var mu sync.Mutex
	events := []string{}

	opts := []WorkerPoolOption{
		WithBeforeTaskStart(func(info TaskInfo) {
			mu.Lock()
			events = append(events, fmt.Sprintf("start:%d", info.Index))
			mu.Unlock()
		}),
		WithOnTaskEnd(func(info TaskInfo, err error) {
			mu.Lock()
			if err != nil {
				events = append(events, fmt.Sprintf("end:%d:error", info.Index))
			} else {
				events = append(events, fmt.Sprintf("end:%d", info.Index))
			}
			mu.Unlock()
		}),
	}

	runStrategyTest(t, func(t *testing.T, wp *WorkerPool) {
		mu.Lock()
		events = events[:0]
		mu.Unlock()

		_, err := Map(context.Background(), wp, func(ctx context.Context, x int) (string, error) {
			time.Sleep(time.Millisecond)
			return fmt.Sprintf("result-%d", x), nil
		}, []int{1, 2, 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()

		if len(events) != 6 {
			t.Errorf("expected 6 events, got %d: %v", len(events), events)
		}

		for i := range 3 {
			startAt, endAt := -1, -1
			for j, event := range events {
				switch event {
				case fmt.Sprintf("start:%d", i):
					startAt = j
				case fmt.Sprintf("end:%d", i):
					endAt = j
				}
			}
			if startAt < 0 || endAt < 0 {
				t.Errorf("missing events for element %d: %v", i, events)
			} else if startAt > endAt {
				t.Errorf("element %d ended before it started: %v", i, events)
			}
		}
	}, 2, opts...)
}

func TestHooksWithError(t *testing.T) {
	expected := errors.New("bad element")
	var mu sync.Mutex
	ended := map[int]error{}

	wp, err := NewWorkerPool(2, WithOnTaskEnd(func(info TaskInfo, err error) {
		mu.Lock()
		ended[info.Index] = err
		mu.Unlock()
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer wp.Shutdown()

	_, err = Map(context.Background(), wp, func(ctx context.Context, x int) (int, error) {
		if x == 1 {
			return 0, expected
		}
		return x, nil
	}, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()

	if ended[0] != nil || ended[2] != nil {
		t.Errorf("successful elements reported errors: %v", ended)
	}
	var taskErr *TaskError
	if !errors.As(ended[1], &taskErr) || taskErr.Index != 1 || !errors.Is(taskErr, expected) {
		t.Errorf("expected *TaskError for element 1, got %v", ended[1])
	}
}

func TestHooksTaskInfo(t *testing.T) {
	var mu sync.Mutex
	infos := []TaskInfo{}

	wp, err := NewWorkerPool(3, WithBeforeTaskStart(func(info TaskInfo) {
		mu.Lock()
		infos = append(infos, info)
		mu.Unlock()
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer wp.Shutdown()

	for range 2 {
		if _, err := Map(context.Background(), wp, double, sequence(10)); err != nil {
			t.Fatal(err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if len(infos) != 20 {
		t.Fatalf("expected 20 starts, got %d", len(infos))
	}

	calls := map[uuid.UUID]int{}
	taskIDs := map[int64]bool{}
	for _, info := range infos {
		calls[info.CallID]++
		if taskIDs[info.TaskID] {
			t.Errorf("task id %d reused", info.TaskID)
		}
		taskIDs[info.TaskID] = true
		if info.Worker < 0 || info.Worker >= 3 {
			t.Errorf("worker index out of range: %d", info.Worker)
		}
		if info.Index < 0 || info.Index >= 10 {
			t.Errorf("element index out of range: %d", info.Index)
		}
	}

	if len(calls) != 2 {
		t.Errorf("expected 2 distinct call ids, got %d", len(calls))
	}
	for id, n := range calls {
		if n != 10 {
			t.Errorf("call %s: expected 10 tasks, got %d", id, n)
		}
	}
}

func TestHooksSkipAbandonedTasks(t *testing.T) {
	var mu sync.Mutex
	started := 0

	wp, err := NewWorkerPool(1, WithBeforeTaskStart(func(TaskInfo) {
		mu.Lock()
		started++
		mu.Unlock()
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer wp.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	_, err = Map(ctx, wp, func(ctx context.Context, x int) (int, error) {
		if x == 0 {
			cancel()
			<-release
		}
		return x, nil
	}, sequence(10))
	close(release)

	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}

	// let the worker drain the abandoned tasks
	if _, err := Map(context.Background(), wp, double, []int{1}); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if started != 2 {
		t.Errorf("expected hooks for element 0 and the follow-up call only, got %d", started)
	}
}
