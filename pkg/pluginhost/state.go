package pluginhost

import "fmt"

// RunState is a run state, distinct from any per-plugin lifecycle state,
// held separately by the Manager and by the Monitor: Executing (normal
// operation), Paused, and Stopped (terminal). For the Manager, Paused
// only stops OnTick from firing; Stopped makes Sync a no-op. For the
// Monitor, Paused skips scans and Stopped ends its loop.
type RunState int

const (
	// Executing is the default run state: ticks advance, commands
	// dispatch, notify/ready broadcasts fan out normally.
	Executing RunState = iota

	// Paused, on the Manager, stops OnTick from firing; Sync keeps
	// draining the load queue, and command dispatch and notify/ready
	// fan-out are unaffected. On the Monitor, Paused skips scanning.
	Paused

	// Stopped is terminal. Sync returns immediately; Stop is idempotent.
	Stopped
)

// String returns the human-readable run state name, used by the phealth
// verb to report the Health() snapshot's run state.
func (s RunState) String() string {
	switch s {
	case Executing:
		return "Executing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return fmt.Sprintf("RunState(%d)", s)
	}
}
