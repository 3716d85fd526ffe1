package fsm

import "errors"

// Predefined error types.
var (
	// ErrInitialStateRequired indicates that a machine or config has no initial state.
	ErrInitialStateRequired = errors.New("initial state is required")

	// ErrConfigNameRequired indicates that a configuration name is required.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrStateRequired indicates that at least one state is required.
	ErrStateRequired = errors.New("at least one state is required")
	// ErrEventRequired indicates that at least one event is required.
	ErrEventRequired = errors.New("at least one event is required")
	// ErrDuplicateState indicates that a state name appears more than once.
	ErrDuplicateState = errors.New("duplicate state name")
	// ErrDuplicateEvent indicates that an event name appears more than once.
	ErrDuplicateEvent = errors.New("duplicate event name")
	// ErrInitialStateNotFound indicates that the initial state does not exist.
	ErrInitialStateNotFound = errors.New("initial state does not exist")
	// ErrEdgeFromNotFound indicates that an edge's from state does not exist.
	ErrEdgeFromNotFound = errors.New("edge from state does not exist")
	// ErrEdgeToNotFound indicates that an edge's to state does not exist.
	ErrEdgeToNotFound = errors.New("edge to state does not exist")
	// ErrEdgeEventNotFound indicates that an edge's event does not exist.
	ErrEdgeEventNotFound = errors.New("edge event does not exist")
	// ErrStateUnreachable indicates that a state cannot be reached from the initial state.
	ErrStateUnreachable = errors.New("state is not reachable from the initial state")
)
