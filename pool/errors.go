package pool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anbtrfl/iterpar/internal/scheduler"
)

var (
	ErrPoolClosed         = errors.New("pool is shut down")
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrInterrupted matches every *InterruptedError via errors.Is.
	ErrInterrupted = errors.New("interrupted")

	// ErrQueueFull is returned by Map on a pool with a bounded MPMC queue
	// that has no free slot.
	ErrQueueFull = scheduler.ErrQueueFull
)

// InterruptedError reports that a wait was cut short by cancellation.
// When several concurrent waits are interrupted at once, the first cause is
// reported and the rest are kept in Suppressed.
type InterruptedError struct {
	Cause      error
	Suppressed []error
}

// Interrupted wraps cause in an *InterruptedError. An *InterruptedError
// cause is returned unchanged.
func Interrupted(cause error) *InterruptedError {
	var ie *InterruptedError
	if errors.As(cause, &ie) {
		return ie
	}
	return &InterruptedError{Cause: cause}
}

func (e *InterruptedError) Error() string {
	var b strings.Builder
	b.WriteString("interrupted")
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if n := len(e.Suppressed); n > 0 {
		fmt.Fprintf(&b, " (%d more suppressed)", n)
	}
	return b.String()
}

func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

func (e *InterruptedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Suppressed)+1)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return append(errs, e.Suppressed...)
}

// JoinInterrupts folds the non-nil errors into a single *InterruptedError:
// the first becomes the cause, the others are suppressed. It returns nil when
// every error is nil.
func JoinInterrupts(errs ...error) error {
	var joined *InterruptedError
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined == nil {
			first := Interrupted(err)
			joined = &InterruptedError{
				Cause:      first.Cause,
				Suppressed: append([]error(nil), first.Suppressed...),
			}
			continue
		}
		joined.Suppressed = append(joined.Suppressed, err)
	}
	if joined == nil {
		return nil
	}
	return joined
}

// TaskError is the failure recorded for one element whose function returned
// an error or panicked.
type TaskError struct {
	// Index of the element in the input
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking user function.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
