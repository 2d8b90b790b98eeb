package types

// Outcome is the captured result of running one task: either a value or the
// error the function failed with. It is stored rather than propagated so the
// submitter can read each element's result on its own goroutine.
type Outcome[R any] struct {
	value     R
	err       error
	isSuccess bool
}

// Success wraps a value produced by a task.
func Success[R any](v R) Outcome[R] {
	return Outcome[R]{value: v, isSuccess: true}
}

// Failure wraps the error a task failed with.
func Failure[R any](err error) Outcome[R] {
	return Outcome[R]{err: err}
}

// Get unwraps the outcome, returning the zero value and the error on failure.
func (o Outcome[R]) Get() (R, error) {
	if !o.isSuccess {
		var zero R
		return zero, o.err
	}
	return o.value, nil
}

func (o Outcome[R]) IsSuccess() bool {
	return o.isSuccess
}

func (o Outcome[R]) Err() error {
	return o.err
}
