package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const adherenceTracerName = "github.com/dosewatch/adherence/internal/service/schedule"

func AdherenceTracer() trace.Tracer {
	return otel.Tracer(adherenceTracerName)
}

func StartReconcileSpan(ctx context.Context, sessionID string, generation int64, entryCount int) (context.Context, trace.Span) {
	return AdherenceTracer().Start(ctx, "adherence.reconcile",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.Int64("plan.generation", generation),
			attribute.Int("plan.entry_count", entryCount),
		),
	)
}

func StartEvaluateSpan(ctx context.Context, sessionID string, eventCount int) (context.Context, trace.Span) {
	return AdherenceTracer().Start(ctx, "adherence.evaluate",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.Int("session.event_count", eventCount),
		),
	)
}

func StartTaskQueueSpan(ctx context.Context, operation, taskID string) (context.Context, trace.Span) {
	return AdherenceTracer().Start(ctx, "adherence.taskqueue."+operation,
		trace.WithAttributes(
			attribute.String("task_id", taskID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// InjectToHTTPRequest propagates the current trace context onto an
// outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
