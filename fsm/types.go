package fsm

import "context"

// Event identifies an input delivered to a Machine.
type Event string

// State handles events for a Machine. A state is behavior plus whatever
// data it was constructed with; it never mutates the machine directly.
//
// Handle returns the state the machine should install once the handler
// returns, or nil to keep the current state. Returning nil is the normal
// way to ignore an event that the state does not care about.
//
// Handle must not call back into the owning Machine; transitions are
// requested exclusively through the return value.
type State interface {
	Name() string
	Handle(ctx context.Context, event Event) State
}
