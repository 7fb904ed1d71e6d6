package surface

import "fmt"

// State is the lifecycle state of a presentation surface.
//
//	Unbound ──PreAdapter(web)──▶ PreStaged
//	Unbound / PreStaged / Suspended ──Resume──▶ Active
//	Active ──Resize──▶ Active
//	Active ──Suspend──▶ Suspended
//	any ──Destroy──▶ Destroyed
type State int

const (
	// StateUnbound has no surface handle.
	StateUnbound State = iota
	// StatePreStaged has a handle created before adapter selection, not yet configured.
	StatePreStaged
	// StateActive has a configured handle and may acquire frames.
	StateActive
	// StateSuspended may not acquire. On mobile the handle has been dropped.
	StateSuspended
	// StateDestroyed is terminal.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "Unbound"
	case StatePreStaged:
		return "PreStaged"
	case StateActive:
		return "Active"
	case StateSuspended:
		return "Suspended"
	case StateDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transitionError reports a transition attempted from a state that does not allow it.
func transitionError(name string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, name, from)
}
