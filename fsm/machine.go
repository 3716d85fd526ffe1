// Package fsm implements a delegation-based finite state machine. A Machine
// holds exactly one active State and routes every event to it; the active
// state decides whether the event causes a transition by returning the next
// state from its handler. The machine itself carries no transition rules:
// legality of a transition is encoded entirely in which states return which
// successors.
//
// Basic usage:
//
//	m, err := fsm.New("player", &stoppedState{})
//	if err != nil {
//	    return err
//	}
//	m.Fire(ctx, "play")   // delegated to stoppedState.Handle
//	m.Fire(ctx, "pause")  // delegated to whatever state "play" installed
//
// Dispatch is serialized: Fire runs the handler and installs the returned
// state under a single lock, so callers never observe a machine between
// states and exactly one state handles each event.
package fsm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Metric outcome constants.
const (
	outcomeTransitioned = "transitioned"
	outcomeStayed       = "stayed"
)

// Machine owns exactly one active state and delegates events to it.
type Machine struct {
	mu      sync.Mutex
	name    string
	current State
	logger  Logger
}

// New creates a machine with the given initial state. The initial state is
// mandatory: a machine never exists without an active state. An empty name
// gets a generated one, used for log and metric labels.
func New(name string, initial State, opts ...Option) (*Machine, error) {
	if initial == nil {
		return nil, ErrInitialStateRequired
	}

	if name == "" {
		name = "machine-" + uuid.NewString()[:8]
	}

	machine := &Machine{
		name:    name,
		current: initial,
	}

	for _, opt := range opts {
		opt(machine)
	}

	return machine, nil
}

// Name returns the machine's name.
func (m *Machine) Name() string {
	return m.name
}

// Fire delivers an event to the active state. If the handler returns a
// non-nil state, it is installed before Fire returns; subsequent events
// route to the new state. Events the active state does not handle are
// no-ops, not errors.
func (m *Machine) Fire(ctx context.Context, event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current.Name()

	ctx, span := startEventSpan(ctx, m.name, from, event)
	defer span.End()

	start := time.Now()
	next := m.current.Handle(ctx, event)
	elapsed := time.Since(start)

	outcome := outcomeStayed

	if next != nil && next != m.current {
		m.current = next
		outcome = outcomeTransitioned

		span.SetAttributes(attribute.String("to_state", next.Name()))
		transitionsTotal.WithLabelValues(m.name, from, next.Name()).Inc()

		if m.logger != nil {
			m.logger.TransitionExecuted(ctx, m.name, from, next.Name())
		}
	}

	eventsTotal.WithLabelValues(m.name, from, string(event), outcome).Inc()

	if m.logger != nil {
		m.logger.EventHandled(ctx, m.name, from, event, elapsed)
	}
}

// SetState replaces the active state unconditionally. The machine performs
// no validation: any state may be installed at any time. A nil state is
// ignored, preserving the single-active-state invariant.
func (m *Machine) SetState(state State) {
	if state == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current.Name()
	m.current = state

	transitionsTotal.WithLabelValues(m.name, from, state.Name()).Inc()

	if m.logger != nil {
		m.logger.TransitionExecuted(context.Background(), m.name, from, state.Name())
	}
}

// Current returns the active state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// CurrentName returns the active state's name.
func (m *Machine) CurrentName() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current.Name()
}
