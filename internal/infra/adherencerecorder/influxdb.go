//go:build !gcloud

package adherencerecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/dosewatch/adherence/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.AdherenceRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "adherence result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, adherence result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "adherence result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordReconcile(ctx context.Context, record domain.ReconcileRecord) error {
	point := influxdb2.NewPoint(
		"reconciliation",
		map[string]string{
			"session_id": record.SessionID,
			"status":     record.Status,
			"trigger":    record.Trigger,
		},
		map[string]any{
			"generation":      record.Generation,
			"cancelled_count": record.CancelledCount,
			"scheduled_count": record.ScheduledCount,
			"dropped_count":   record.DroppedCount,
			"first_fire_unix": record.FirstFireAt.Unix(),
			"last_fire_unix":  record.LastFireAt.Unix(),
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write reconciliation record to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("session_id", record.SessionID),
			slog.String("trigger", record.Trigger),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
