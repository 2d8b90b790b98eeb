package types

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// TaskState is the lifecycle stage of a Task.
type TaskState int32

const (
	TaskPending TaskState = iota
	TaskRunning
	TaskCompleted
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Task is one deferred application of a function to one input element.
//
// The closures are supplied by the submitter: exec applies the function and
// stores the outcome in the submitter's result slot, abandon stores a failure
// without applying the function, and done is invoked exactly once after either
// of them (it is where the submitter's completion latch is released).
//
// A task moves Pending -> Running -> Completed, or Pending -> Completed when
// abandoned. The Pending transition is a compare-and-swap, so a task that sits
// in a queue while its submitter gives up is never executed afterwards.
type Task struct {
	Id    int64
	Call  uuid.UUID
	Index int

	exec    func() error
	abandon func(error)
	done    func()
	state   atomic.Int32
}

// NewTask creates a pending task. abandon and done may be nil.
func NewTask(id int64, call uuid.UUID, index int, exec func() error, abandon func(error), done func()) *Task {
	return &Task{
		Id:      id,
		Call:    call,
		Index:   index,
		exec:    exec,
		abandon: abandon,
		done:    done,
	}
}

// State returns the current lifecycle stage.
func (t *Task) State() TaskState {
	return TaskState(t.state.Load())
}

// Start claims the task for execution. It returns false if the task was
// already claimed or abandoned, in which case the caller must drop it.
func (t *Task) Start() bool {
	return t.state.CompareAndSwap(int32(TaskPending), int32(TaskRunning))
}

// Execute runs a task previously claimed with Start, marks it completed and
// returns the error recorded by exec.
func (t *Task) Execute() error {
	err := t.exec()
	t.state.Store(int32(TaskCompleted))
	if t.done != nil {
		t.done()
	}
	return err
}

// Abandon completes a pending task with err without executing it.
// It reports whether the task was still pending.
func (t *Task) Abandon(err error) bool {
	if !t.state.CompareAndSwap(int32(TaskPending), int32(TaskCompleted)) {
		return false
	}
	if t.abandon != nil {
		t.abandon(err)
	}
	if t.done != nil {
		t.done()
	}
	return true
}
