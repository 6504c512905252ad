//go:build gcloud

package adherencerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dosewatch/adherence/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt     time.Time `bigquery:"recorded_at"`
	SessionID      string    `bigquery:"session_id"`
	UserID         string    `bigquery:"user_id"`
	Status         string    `bigquery:"status"`
	Trigger        string    `bigquery:"trigger"`
	Generation     int64     `bigquery:"generation"`
	CancelledCount int64     `bigquery:"cancelled_count"`
	ScheduledCount int64     `bigquery:"scheduled_count"`
	DroppedCount   int64     `bigquery:"dropped_count"`
	FirstFireAt    time.Time `bigquery:"first_fire_at"`
	LastFireAt     time.Time `bigquery:"last_fire_at"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AdherenceRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "adherence result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, adherence result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, adherence result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "adherence result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordReconcile(ctx context.Context, record domain.ReconcileRecord) error {
	bqRecord := &bigQueryRecord{
		RecordedAt:     time.Now(),
		SessionID:      record.SessionID,
		UserID:         record.UserID,
		Status:         record.Status,
		Trigger:        record.Trigger,
		Generation:     record.Generation,
		CancelledCount: int64(record.CancelledCount),
		ScheduledCount: int64(record.ScheduledCount),
		DroppedCount:   int64(record.DroppedCount),
		FirstFireAt:    record.FirstFireAt,
		LastFireAt:     record.LastFireAt,
	}

	if err := r.inserter.Put(ctx, bqRecord); err != nil {
		slog.WarnContext(ctx, "failed to write reconciliation record to BigQuery",
			slog.String("error", err.Error()),
			slog.String("session_id", record.SessionID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	return r.client.Close()
}
