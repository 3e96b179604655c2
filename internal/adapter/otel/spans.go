package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "stylecast"

// StartRequestSpan starts a span for one pipeline request.
func StartRequestSpan(ctx context.Context, requestID, threadID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "request",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("thread.id", threadID),
		),
	)
}

// StartStageSpan starts a span for one pipeline stage within a request.
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "stage",
		trace.WithAttributes(
			attribute.String("stage.name", stage),
		),
	)
}
