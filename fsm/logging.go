package fsm

import (
	"context"
	"log/slog"
	"time"
)

// Logger provides logging hooks for machine dispatch.
type Logger interface {
	EventHandled(ctx context.Context, machine, state string, event Event, duration time.Duration)
	TransitionExecuted(ctx context.Context, machine, from, to string)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger backed by slog.Default.
func NewDefaultLogger() *DefaultLogger {
	return NewLogger(slog.Default())
}

// NewLogger creates a logger backed by the given slog logger.
func NewLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) EventHandled(
	ctx context.Context,
	machine, state string,
	event Event,
	duration time.Duration,
) {
	l.logger.InfoContext(ctx, "Event handled",
		"machine", machine,
		"state", state,
		"event", string(event),
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, machine, from, to string) {
	l.logger.InfoContext(ctx, "Transition executed",
		"machine", machine,
		"from", from,
		"to", to,
	)
}
