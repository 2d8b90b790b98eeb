// Package cpu binds pool workers to OS threads and, where the platform
// allows it, to individual cores.
package cpu

import (
	"errors"
	"runtime"
)

// ErrPinningUnsupported is returned by BindWorker on platforms without
// thread affinity control. The thread is still locked.
var ErrPinningUnsupported = errors.New("cpu pinning not supported on this platform")

// coreFor maps a worker id onto [0, runtime.NumCPU()).
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	id := workerID % n
	if id < 0 {
		id += n
	}
	return id
}
