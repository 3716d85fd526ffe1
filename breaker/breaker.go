// Package breaker implements a three-state circuit breaker protecting a
// fallible operation. After a configurable number of consecutive failures
// the circuit opens and calls fail fast without invoking the operation;
// after a cooldown the next incoming call becomes a single recovery probe.
//
// The cooldown is checked lazily on the call path: there are no background
// timers, so an idle breaker consumes nothing and the component works in
// purely request-driven environments.
//
// Basic usage:
//
//	b := breaker.New(
//	    breaker.WithFailureThreshold(3),
//	    breaker.WithResetTimeout(time.Second),
//	)
//	err := b.Do(ctx, func(ctx context.Context) error {
//	    return callRemoteService(ctx)
//	})
//	if errors.Is(err, breaker.ErrOpen) {
//	    // not attempted; retry later or fall back
//	}
//
// For operations that return values:
//
//	user, err := breaker.DoValue(ctx, b, func(ctx context.Context) (User, error) {
//	    return fetchUser(ctx, id)
//	})
//
// Callers that cannot wrap the operation in a closure can drive the breaker
// with the lower-level Allow / RecordSuccess / RecordFailure calls.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
)

const (
	defaultFailureThreshold = 5
	defaultResetTimeout     = 10 * time.Second

	// halfOpenProbes is the number of trial calls allowed while half-open.
	// A single failed probe re-opens the circuit; it does not get retries.
	halfOpenProbes = 1
)

// Breaker guards one logical remote dependency. Do not share a Breaker
// across unrelated dependencies; each instance keeps its own counters.
type Breaker struct {
	mu sync.Mutex

	name string

	state        State
	failureCount int
	lastFailure  time.Time
	probesSent   int

	threshold    int
	resetTimeout time.Duration

	nowFn  func() time.Time
	logger Logger

	// Cumulative counters, readable without the lock.
	successes     atomic.Int64
	failures      atomic.Int64
	shortCircuits atomic.Int64
}

// Stats is a snapshot of a breaker's cumulative counters.
type Stats struct {
	Successes     int64
	Failures      int64
	ShortCircuits int64
}

// New creates a breaker in the closed state. Non-positive settings fall back
// to the defaults (threshold 5, reset timeout 10s).
func New(opts ...Option) *Breaker {
	breaker := &Breaker{
		state:        StateClosed,
		threshold:    defaultFailureThreshold,
		resetTimeout: defaultResetTimeout,
	}

	for _, opt := range opts {
		opt(breaker)
	}

	if breaker.threshold <= 0 {
		breaker.threshold = defaultFailureThreshold
	}

	if breaker.resetTimeout <= 0 {
		breaker.resetTimeout = defaultResetTimeout
	}

	if breaker.name == "" {
		breaker.name = "breaker-" + uuid.NewString()[:8]
	}

	return breaker
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// Do attempts the protected operation subject to the circuit state.
//
// While open and inside the reset timeout, Do returns ErrOpen without
// invoking op. Once the timeout has elapsed, the call transitions the
// breaker to half-open and runs op as the single recovery probe. In the
// closed and half-open states the operation runs; its error, if any, is
// propagated unchanged after the breaker's bookkeeping is updated.
func (b *Breaker) Do(ctx context.Context, op func(context.Context) error) error {
	ctx, span := startCallSpan(ctx, b.name)
	defer span.End()

	if err := b.Allow(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		callsTotal.WithLabelValues(b.name, b.State().String(), outcomeRejected).Inc()

		return err
	}

	state := b.State()

	start := time.Now()
	err := op(ctx)
	elapsed := time.Since(start)

	if b.logger != nil {
		b.logger.CallFinished(ctx, b.name, elapsed, err)
	}

	if err != nil {
		b.RecordFailure(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		callsTotal.WithLabelValues(b.name, state.String(), outcomeError).Inc()

		return err
	}

	b.RecordSuccess(ctx)
	span.SetStatus(codes.Ok, "completed")
	callsTotal.WithLabelValues(b.name, state.String(), outcomeSuccess).Inc()

	return nil
}

// DoValue attempts the protected operation through the breaker, returning
// the operation's result. On rejection or failure it returns the zero value
// of T alongside the error.
func DoValue[T any](ctx context.Context, b *Breaker, op func(context.Context) (T, error)) (T, error) {
	var out T

	err := b.Do(ctx, func(ctx context.Context) error {
		var err error

		out, err = op(ctx)

		return err
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return out, nil
}

// Allow checks whether a call may proceed, reserving the recovery probe
// when the reset timeout has elapsed. A nil return must be paired with
// exactly one RecordSuccess or RecordFailure call.
func (b *Breaker) Allow(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) <= b.resetTimeout {
			return b.rejectLocked(ctx, reasonOpen)
		}

		// The timeout has elapsed; this call becomes the recovery probe.
		b.transitionToLocked(ctx, StateHalfOpen)
		b.probesSent++

		return nil

	case StateHalfOpen:
		if b.probesSent >= halfOpenProbes {
			return b.rejectLocked(ctx, reasonProbeLimit)
		}

		b.probesSent++

		return nil

	default:
		return nil
	}
}

// RecordSuccess records a successful call. A successful probe closes the
// circuit; a success while closed resets the failure count.
func (b *Breaker) RecordSuccess(ctx context.Context) {
	b.successes.Inc()

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.transitionToLocked(ctx, StateClosed)
	case StateClosed:
		b.failureCount = 0
	case StateOpen:
		// Success while open means Allow was bypassed; nothing to update.
	}
}

// RecordFailure records a failed call. It increments the failure count and
// stamps the failure time before any transition, so the bookkeeping is
// already visible when the caller sees the error. A failed probe re-opens
// the circuit immediately; crossing the threshold while closed opens it.
func (b *Breaker) RecordFailure(ctx context.Context) {
	b.failures.Inc()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailure = b.now()

	switch b.state {
	case StateHalfOpen:
		b.transitionToLocked(ctx, StateOpen)
	case StateClosed:
		if b.failureCount >= b.threshold {
			b.transitionToLocked(ctx, StateOpen)
		}
	case StateOpen:
	}
}

// State returns the current state. This is a pure read: the open to
// half-open transition happens only on an incoming call attempt, never as
// a side effect of observation.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// FailureCount returns the current consecutive failure count.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.failureCount
}

// Stats returns a snapshot of the breaker's cumulative counters.
func (b *Breaker) Stats() Stats {
	return Stats{
		Successes:     b.successes.Load(),
		Failures:      b.failures.Load(),
		ShortCircuits: b.shortCircuits.Load(),
	}
}

// rejectLocked records a fast-failed call and returns the rejection error.
func (b *Breaker) rejectLocked(ctx context.Context, reason string) error {
	b.shortCircuits.Inc()
	rejectionsTotal.WithLabelValues(b.name, reason).Inc()

	if b.logger != nil {
		b.logger.CallRejected(ctx, b.name, reason)
	}

	return &OpenError{
		Name:  b.name,
		Since: b.lastFailure,
	}
}

// transitionToLocked installs the new state and resets the bookkeeping the
// new state starts from. Entering closed resets the failure count; the count
// is never reset on the way into open, so the failure that tripped the
// circuit stays observable.
func (b *Breaker) transitionToLocked(ctx context.Context, newState State) {
	from := b.state
	b.state = newState
	b.probesSent = 0

	if newState == StateClosed {
		b.failureCount = 0
	}

	stateGauge.WithLabelValues(b.name).Set(float64(newState))
	transitionsTotal.WithLabelValues(b.name, from.String(), newState.String()).Inc()

	if b.logger != nil {
		b.logger.StateChanged(ctx, b.name, from, newState)
	}
}

func (b *Breaker) now() time.Time {
	if b.nowFn != nil {
		return b.nowFn()
	}

	return time.Now()
}
