package breaker

import (
	"context"
	"log/slog"
	"time"
)

// Logger provides logging hooks for breaker activity.
type Logger interface {
	StateChanged(ctx context.Context, name string, from, to State)
	CallRejected(ctx context.Context, name string, reason string)
	CallFinished(ctx context.Context, name string, duration time.Duration, err error)
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

func (l *DefaultLogger) StateChanged(ctx context.Context, name string, from, to State) {
	l.logger.WarnContext(ctx, "Breaker state changed",
		"breaker", name,
		"from", from.String(),
		"to", to.String(),
	)
}

func (l *DefaultLogger) CallRejected(ctx context.Context, name string, reason string) {
	l.logger.InfoContext(ctx, "Breaker rejected call",
		"breaker", name,
		"reason", reason,
	)
}

func (l *DefaultLogger) CallFinished(ctx context.Context, name string, duration time.Duration, err error) {
	if err != nil {
		l.logger.ErrorContext(ctx, "Protected call failed",
			"breaker", name,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		l.logger.InfoContext(ctx, "Protected call succeeded",
			"breaker", name,
			"duration_ms", duration.Milliseconds(),
		)
	}
}
