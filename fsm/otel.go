package fsm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startEventSpan creates a span for a single event dispatch.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startEventSpan(ctx context.Context, machine, state string, event Event) (context.Context, trace.Span) {
	tracer := otel.Tracer("fsm")
	ctx, span := tracer.Start(ctx, "fsm.event."+string(event))
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("state", state),
		attribute.String("event", string(event)),
	)

	return ctx, span
}
