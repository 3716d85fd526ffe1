package breaker

// State represents the state of a circuit breaker.
type State int

const (
	StateClosed   State = iota // Normal operation, calls allowed.
	StateOpen                  // Circuit open, calls fast-failed.
	StateHalfOpen              // Probing mode, a single trial call allowed.
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
