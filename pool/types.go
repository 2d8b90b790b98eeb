package pool

import (
	"context"

	"github.com/google/uuid"
)

// MapFunc is applied by the pool to each element of a Map call.
// The context is cancelled when the caller stops waiting for the call.
//
// Type parameters:
//   - T: The type of input element
//   - R: The type of result produced for the element
type MapFunc[T any, R any] func(ctx context.Context, item T) (R, error)

// TaskInfo identifies a task in hooks.
//
// Fields:
//   - CallID: Identifier shared by every task of one Map call
//   - TaskID: Pool-wide sequence number of the task
//   - Index: Position of the task's element in the call's input
//   - Worker: Index of the worker running the task
type TaskInfo struct {
	CallID uuid.UUID
	TaskID int64
	Index  int
	Worker int
}
