package plugin

import "fmt"

// State is the plugin state exposed to SaltyChat consumers.
type State int

const (
	StateDisconnected State = -1
	StateError        State = 0
	StateDegraded     State = 1
	StateReady        State = 2
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateError:
		return "error"
	case StateDegraded:
		return "degraded"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Healthy reports whether the backend can carry voice, possibly degraded.
func (s State) Healthy() bool {
	return s == StateReady || s == StateDegraded
}
