package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const adherenceMeterName = "adherence.service"

type AdherenceMetrics struct {
	statusEvaluations  metric.Int64Counter
	entriesScheduled   metric.Int64Counter
	entriesCancelled   metric.Int64Counter
	entriesDropped     metric.Int64Counter
	reconcileDuration  metric.Float64Histogram
	supersededConflict metric.Int64Counter
}

func NewAdherenceMetrics() (*AdherenceMetrics, error) {
	meter := otel.Meter(adherenceMeterName)

	statusEvaluations, err := meter.Int64Counter(
		"adherence_status_evaluations_total",
		metric.WithDescription("Total number of protection status evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, err
	}

	entriesScheduled, err := meter.Int64Counter(
		"adherence_plan_entries_scheduled_total",
		metric.WithDescription("Total number of reminder entries installed on the task queue"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entriesCancelled, err := meter.Int64Counter(
		"adherence_plan_entries_cancelled_total",
		metric.WithDescription("Total number of previously installed reminder entries cancelled"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	entriesDropped, err := meter.Int64Counter(
		"adherence_plan_entries_dropped_total",
		metric.WithDescription("Total number of reminder entries dropped after permanent scheduling failure"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	reconcileDuration, err := meter.Float64Histogram(
		"adherence_reconcile_duration_seconds",
		metric.WithDescription("Plan reconciliation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	supersededConflict, err := meter.Int64Counter(
		"adherence_reconcile_superseded_total",
		metric.WithDescription("Total number of reconciliations abandoned to a newer plan generation"),
		metric.WithUnit("{reconciliation}"),
	)
	if err != nil {
		return nil, err
	}

	return &AdherenceMetrics{
		statusEvaluations:  statusEvaluations,
		entriesScheduled:   entriesScheduled,
		entriesCancelled:   entriesCancelled,
		entriesDropped:     entriesDropped,
		reconcileDuration:  reconcileDuration,
		supersededConflict: supersededConflict,
	}, nil
}

func (m *AdherenceMetrics) RecordStatusEvaluation(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.statusEvaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *AdherenceMetrics) RecordEntriesScheduled(ctx context.Context, count int) {
	if m == nil || count == 0 {
		return
	}
	m.entriesScheduled.Add(ctx, int64(count))
}

func (m *AdherenceMetrics) RecordEntriesCancelled(ctx context.Context, count int) {
	if m == nil || count == 0 {
		return
	}
	m.entriesCancelled.Add(ctx, int64(count))
}

func (m *AdherenceMetrics) RecordEntriesDropped(ctx context.Context, count int) {
	if m == nil || count == 0 {
		return
	}
	m.entriesDropped.Add(ctx, int64(count))
}

func (m *AdherenceMetrics) RecordReconcileDuration(ctx context.Context, seconds float64, trigger string) {
	if m == nil {
		return
	}
	m.reconcileDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("trigger", trigger),
	))
}

func (m *AdherenceMetrics) RecordSuperseded(ctx context.Context) {
	if m == nil {
		return
	}
	m.supersededConflict.Add(ctx, 1)
}
