package statewatch

import (
	"math"
	"time"
)

// Forever makes a wait block without a deadline.
const Forever time.Duration = math.MaxInt64

// WakeState is the outcome of a bounded wait.
type WakeState int

const (
	// Completed means the predicate held when the wait returned.
	Completed WakeState = iota
	// TimedOut means the wait budget elapsed before the predicate held.
	TimedOut
	// Interrupted means the context was done, or the predicate panicked.
	Interrupted
)

func (s WakeState) String() string {
	switch s {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed_out"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}
