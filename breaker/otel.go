package breaker

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startCallSpan creates a span for one call through the breaker.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startCallSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.Tracer("breaker")
	ctx, span := tracer.Start(ctx, "breaker.call")
	span.SetAttributes(attribute.String("breaker", name))

	return ctx, span
}
