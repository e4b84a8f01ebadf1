package lifecycle

// State is the lifecycle phase of a Worker.
type State int32

const (
	Unborn State = iota
	Living
	Paused
	Dying
	Dead
)

func (s State) String() string {
	switch s {
	case Unborn:
		return "unborn"
	case Living:
		return "living"
	case Paused:
		return "paused"
	case Dying:
		return "dying"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Terminal reports whether the worker can no longer do work.
func (s State) Terminal() bool {
	return s == Dying || s == Dead
}
