//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// BindWorker locks the calling goroutine to its OS thread and pins that
// thread to core workerID modulo the CPU count. The returned release func
// unlocks the thread and must be deferred even when err is non-nil.
func BindWorker(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(coreFor(workerID))

	// 0 = current thread
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return release, err
	}
	return release, nil
}
