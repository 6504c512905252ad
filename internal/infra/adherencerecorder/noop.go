package adherencerecorder

import (
	"context"

	"github.com/dosewatch/adherence/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.AdherenceRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordReconcile(_ context.Context, _ domain.ReconcileRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
