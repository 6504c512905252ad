package domain

import (
	"context"
	"time"
)

// ReconcileRecord captures the outcome of one plan reconciliation for
// offline analysis.
type ReconcileRecord struct {
	SessionID      string
	UserID         string
	Status         string
	Trigger        string
	Generation     int64
	CancelledCount int
	ScheduledCount int
	DroppedCount   int
	FirstFireAt    time.Time
	LastFireAt     time.Time
}

// AdherenceRecorder sinks reconciliation outcomes to an analytics store.
// Recording is best-effort and never blocks domain state changes.
type AdherenceRecorder interface {
	RecordReconcile(ctx context.Context, record ReconcileRecord) error
	Flush(ctx context.Context) error
	Close() error
}
