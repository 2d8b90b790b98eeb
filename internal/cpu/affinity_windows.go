//go:build windows

package cpu

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// BindWorker locks the calling goroutine to its OS thread and pins that
// thread to core workerID modulo the CPU count. The returned release func
// unlocks the thread and must be deferred even when err is non-nil.
func BindWorker(workerID int) (release func(), err error) {
	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	// Bit N = CPU N
	mask := uintptr(1) << uint(coreFor(workerID))

	prev, _, callErr := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if prev == 0 {
		return release, callErr
	}
	return release, nil
}
