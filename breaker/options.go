package breaker

import "time"

// Option configures a Breaker.
type Option func(*Breaker)

// WithName sets the breaker's name, used for log and metric labels.
// An empty name gets a generated one.
func WithName(name string) Option {
	return func(b *Breaker) {
		b.name = name
	}
}

// WithFailureThreshold sets the number of consecutive failures that opens
// the circuit. Non-positive values fall back to the default.
func WithFailureThreshold(threshold int) Option {
	return func(b *Breaker) {
		b.threshold = threshold
	}
}

// WithResetTimeout sets how long the circuit stays open before the next
// call is allowed through as a recovery probe. Non-positive values fall
// back to the default.
func WithResetTimeout(timeout time.Duration) Option {
	return func(b *Breaker) {
		b.resetTimeout = timeout
	}
}

// WithClock overrides the breaker clock, primarily for tests.
func WithClock(nowFn func() time.Time) Option {
	return func(b *Breaker) {
		b.nowFn = nowFn
	}
}

// WithLogger sets the logger used for state changes and call outcomes.
func WithLogger(logger Logger) Option {
	return func(b *Breaker) {
		b.logger = logger
	}
}
