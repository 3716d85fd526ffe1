package breaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome and rejection reason constants.
const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeRejected = "rejected"

	reasonOpen       = "open"
	reasonProbeLimit = "half_open_probe_limit"
)

var (
	// callsTotal tracks calls through the breaker by state and outcome.
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "breaker_calls_total",
		Help: "Total number of calls by breaker, state the call ran under, and outcome",
	}, []string{"breaker", "state", "outcome"})

	// rejectionsTotal tracks fast-failed calls by reason.
	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "breaker_rejections_total",
		Help: "Total number of calls rejected without invoking the protected operation",
	}, []string{"breaker", "reason"})

	// transitionsTotal tracks circuit state transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "breaker_transitions_total",
		Help: "Total number of circuit state transitions by breaker",
	}, []string{"breaker", "from_state", "to_state"})

	// stateGauge reports the current circuit state (0 closed, 1 open, 2 half-open).
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "breaker_state",
		Help: "Current circuit state by breaker (0 closed, 1 open, 2 half-open)",
	}, []string{"breaker"})
)
