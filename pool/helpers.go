package pool

import (
	"context"
	"runtime"
)

// processWithRecovery applies f to item, converting a panic into a
// *PanicError so that one element cannot take down its worker.
func processWithRecovery[T, R any](ctx context.Context, f MapFunc[T, R], item T) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()

	return f(ctx, item)
}
