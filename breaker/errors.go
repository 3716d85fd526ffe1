package breaker

import (
	"errors"
	"fmt"
	"time"
)

// ErrOpen is returned when a call is rejected without invoking the protected
// operation because the circuit is open (or the half-open probe slot is
// taken). It carries no information about the underlying operation; callers
// can retry later or fall back.
var ErrOpen = errors.New("circuit breaker is open")

// OpenError is the concrete rejection error. It wraps ErrOpen, so callers
// match it with errors.Is(err, breaker.ErrOpen).
type OpenError struct {
	Name  string
	Since time.Time // Time of the failure that opened (or re-opened) the circuit.
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("breaker %s: %v", e.Name, ErrOpen)
}

func (e *OpenError) Unwrap() error {
	return ErrOpen
}
