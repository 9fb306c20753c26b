package dcss

import "sync/atomic"

// State is the subsystem lifecycle. It leaves Reset with the first commit
// that enables the timing generator and enters Stop on shutdown.
type State int32

const (
	Reset State = iota
	Running
	Stop
)

func (s State) String() string {
	switch s {
	case Reset:
		return "reset"
	case Running:
		return "running"
	case Stop:
		return "stop"
	}
	return "invalid"
}

var lifecycle atomic.Int32

// Lifecycle returns the current subsystem state.
func Lifecycle() State { return State(lifecycle.Load()) }

// SetLifecycle moves the subsystem to s. Only the Main channel's commit path
// may call it.
func SetLifecycle(s State) { lifecycle.Store(int32(s)) }
