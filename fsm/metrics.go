package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// eventsTotal tracks dispatched events by machine, state, event, and outcome.
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_events_total",
		Help: "Total number of events dispatched by machine, state, event, and outcome (transitioned or stayed)",
	}, []string{"machine", "state", "event", "outcome"})

	// transitionsTotal tracks state transitions by machine.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_transitions_total",
		Help: "Total number of state transitions by machine, from_state, and to_state",
	}, []string{"machine", "from_state", "to_state"})
)
