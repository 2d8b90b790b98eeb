//go:build darwin

package cpu

import (
	"runtime"
)

// BindWorker locks the calling goroutine to an OS thread.
// CPU pinning is not available on macOS, so err is always ErrPinningUnsupported.
func BindWorker(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, ErrPinningUnsupported
}
