//go:build !linux && !darwin && !windows

package cpu

import (
	"runtime"
)

// BindWorker locks the calling goroutine to an OS thread; pinning is not
// implemented on this platform.
func BindWorker(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, ErrPinningUnsupported
}
