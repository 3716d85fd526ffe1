package breaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errServiceDown = errors.New("service down")

// fakeClock is a manually advanced clock for deterministic timeout tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// countingOp fails until recovered is set, counting every invocation.
type countingOp struct {
	calls     int
	recovered bool
}

func (o *countingOp) call(_ context.Context) error {
	o.calls++
	if o.recovered {
		return nil
	}

	return errServiceDown
}

func newTestBreaker(t *testing.T, clock *fakeClock) *Breaker {
	t.Helper()

	return New(
		WithName(t.Name()),
		WithFailureThreshold(3),
		WithResetTimeout(time.Second),
		WithClock(clock.Now),
	)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	b := New()

	assert.NotEmpty(t, b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.FailureCount())
}

func TestNew_CoercesInvalidSettings(t *testing.T) {
	t.Parallel()

	b := New(WithFailureThreshold(-1), WithResetTimeout(-time.Second))

	// Four failures stay below the coerced default threshold of five.
	for range 4 {
		b.RecordFailure(t.Context())
	}

	assert.Equal(t, StateClosed, b.State())

	b.RecordFailure(t.Context())
	assert.Equal(t, StateOpen, b.State())
}

func TestDo_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for i := range 3 {
		err := b.Do(t.Context(), op.call)
		require.ErrorIs(t, err, errServiceDown, "failure %d must propagate unchanged", i+1)
	}

	// The third call still attempted the operation; opening is a side
	// effect of that call, not a replacement for it.
	assert.Equal(t, 3, op.calls)
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, 3, b.FailureCount())
}

func TestDo_FailFastWhileOpen(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for range 3 {
		_ = b.Do(t.Context(), op.call)
	}

	require.Equal(t, StateOpen, b.State())

	for range 5 {
		err := b.Do(t.Context(), op.call)
		require.ErrorIs(t, err, ErrOpen)

		var openErr *OpenError

		require.ErrorAs(t, err, &openErr)
		assert.Equal(t, t.Name(), openErr.Name)
	}

	// The wrapped operation was never invoked while open.
	assert.Equal(t, 3, op.calls)
}

func TestDo_RecoveryProbeSuccess(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for range 3 {
		_ = b.Do(t.Context(), op.call)
	}

	require.Equal(t, StateOpen, b.State())

	clock.Advance(1100 * time.Millisecond)

	op.recovered = true

	err := b.Do(t.Context(), op.call)
	require.NoError(t, err)

	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.FailureCount())
	assert.Equal(t, 4, op.calls)
}

func TestDo_RecoveryProbeFailure(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for range 3 {
		_ = b.Do(t.Context(), op.call)
	}

	clock.Advance(1100 * time.Millisecond)

	// The probe fails: straight back to open, no second probe.
	err := b.Do(t.Context(), op.call)
	require.ErrorIs(t, err, errServiceDown)
	require.Equal(t, StateOpen, b.State())
	assert.Equal(t, 4, op.calls)

	// The timeout window restarts from the probe's failure timestamp.
	err = b.Do(t.Context(), op.call)
	require.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 4, op.calls)

	clock.Advance(1100 * time.Millisecond)

	op.recovered = true

	require.NoError(t, b.Do(t.Context(), op.call))
	assert.Equal(t, StateClosed, b.State())
}

func TestDo_SuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	_ = b.Do(t.Context(), op.call)
	_ = b.Do(t.Context(), op.call)
	require.Equal(t, 2, b.FailureCount())

	op.recovered = true
	require.NoError(t, b.Do(t.Context(), op.call))
	assert.Zero(t, b.FailureCount())

	// The count starts over: two more failures do not trip a threshold of three.
	op.recovered = false

	_ = b.Do(t.Context(), op.call)
	_ = b.Do(t.Context(), op.call)
	assert.Equal(t, StateClosed, b.State())
}

func TestDo_RepeatedSuccessKeepsCountZero(t *testing.T) {
	t.Parallel()

	b := New(WithName(t.Name()))

	for range 10 {
		require.NoError(t, b.Do(t.Context(), func(_ context.Context) error {
			return nil
		}))
		require.Zero(t, b.FailureCount())
	}

	assert.Equal(t, StateClosed, b.State())
}

func TestDoValue(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)

	got, err := DoValue(t.Context(), b, func(_ context.Context) (string, error) {
		return "payload", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	for range 3 {
		_, err = DoValue(t.Context(), b, func(_ context.Context) (string, error) {
			return "", errServiceDown
		})
		require.ErrorIs(t, err, errServiceDown)
	}

	got, err = DoValue(t.Context(), b, func(_ context.Context) (string, error) {
		return "never", nil
	})
	require.ErrorIs(t, err, ErrOpen)
	assert.Empty(t, got)
}

func TestAllowRecord_LowLevel(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)

	require.NoError(t, b.Allow(t.Context()))
	b.RecordSuccess(t.Context())

	for range 3 {
		require.NoError(t, b.Allow(t.Context()))
		b.RecordFailure(t.Context())
	}

	require.Equal(t, StateOpen, b.State())
	require.ErrorIs(t, b.Allow(t.Context()), ErrOpen)
}

func TestHalfOpen_SingleProbeSlot(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)

	for range 3 {
		b.RecordFailure(t.Context())
	}

	clock.Advance(1100 * time.Millisecond)

	// First call takes the probe slot; a second concurrent-style call is
	// rejected until the probe reports.
	require.NoError(t, b.Allow(t.Context()))
	require.Equal(t, StateHalfOpen, b.State())
	require.ErrorIs(t, b.Allow(t.Context()), ErrOpen)

	b.RecordSuccess(t.Context())
	assert.Equal(t, StateClosed, b.State())
	require.NoError(t, b.Allow(t.Context()))
}

func TestState_PureRead(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for range 3 {
		_ = b.Do(t.Context(), op.call)
	}

	clock.Advance(time.Hour)

	// Observation alone never moves the circuit to half-open.
	assert.Equal(t, StateOpen, b.State())
	assert.Equal(t, StateOpen, b.State())

	op.recovered = true

	require.NoError(t, b.Do(t.Context(), op.call))
	assert.Equal(t, StateClosed, b.State())
}

func TestStats(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock)
	op := &countingOp{}

	for range 3 {
		_ = b.Do(t.Context(), op.call)
	}

	_ = b.Do(t.Context(), op.call) // rejected

	clock.Advance(1100 * time.Millisecond)

	op.recovered = true
	_ = b.Do(t.Context(), op.call)

	stats := b.Stats()
	assert.Equal(t, Stats{
		Successes:     1,
		Failures:      3,
		ShortCircuits: 1,
	}, stats)
}

// recordingLogger captures state changes for assertions.
type recordingLogger struct {
	mu          sync.Mutex
	transitions [][2]State
	rejections  int
}

func (l *recordingLogger) StateChanged(_ context.Context, _ string, from, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transitions = append(l.transitions, [2]State{from, to})
}

func (l *recordingLogger) CallRejected(_ context.Context, _ string, _ string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rejections++
}

func (l *recordingLogger) CallFinished(_ context.Context, _ string, _ time.Duration, _ error) {}

func TestLogger_ObservesLifecycle(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	logger := &recordingLogger{}
	b := New(
		WithName(t.Name()),
		WithFailureThreshold(2),
		WithResetTimeout(time.Second),
		WithClock(clock.Now),
		WithLogger(logger),
	)
	op := &countingOp{}

	_ = b.Do(t.Context(), op.call)
	_ = b.Do(t.Context(), op.call) // trips the circuit
	_ = b.Do(t.Context(), op.call) // rejected

	clock.Advance(1100 * time.Millisecond)

	op.recovered = true
	_ = b.Do(t.Context(), op.call) // probe succeeds

	assert.Equal(t, [][2]State{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, logger.transitions)
	assert.Equal(t, 1, logger.rejections)
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	b := New(
		WithName(t.Name()),
		WithFailureThreshold(1),
		WithLogger(NewLogger(slogt.New(t))),
	)

	require.ErrorIs(t, b.Do(t.Context(), func(_ context.Context) error {
		return errServiceDown
	}), errServiceDown)
	assert.Equal(t, StateOpen, b.State())
}

// TestEndToEndScenario walks the full lifecycle: trip, fast-fail, recover.
func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	b := newTestBreaker(t, clock) // threshold 3, reset timeout 1s
	op := &countingOp{}

	for range 3 {
		require.ErrorIs(t, b.Do(t.Context(), op.call), errServiceDown)
	}

	require.Equal(t, StateOpen, b.State())

	err := b.Do(t.Context(), op.call)
	require.ErrorIs(t, err, ErrOpen)
	require.Equal(t, 3, op.calls)

	clock.Advance(1100 * time.Millisecond)

	op.recovered = true

	require.NoError(t, b.Do(t.Context(), op.call))
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.FailureCount())
}
