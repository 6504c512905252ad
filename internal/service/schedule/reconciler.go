package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/infra/taskqueue"
	"github.com/dosewatch/adherence/internal/observability/metrics"
	"github.com/dosewatch/adherence/internal/observability/tracing"
)

// Result summarizes one reconciliation.
type Result struct {
	Generation int64
	Cancelled  int
	Scheduled  int
	Dropped    int
}

// Reconciler replaces a session's installed reminder plan with a freshly
// computed one. Every reconciliation cancels all previously installed
// entries before installing the new plan, including when the new plan is
// empty, so a cleared or ended session never leaks a stale reminder.
//
// Reconciliations are serialized per session with an in-process lock, and
// ordered across processes with a generation counter: a reconciliation
// that finishes after a newer generation has been installed abandons its
// work instead of overwriting it.
type Reconciler struct {
	repo      domain.SessionRepository
	taskQueue taskqueue.TaskQueue
	metrics   *metrics.AdherenceMetrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReconciler(repo domain.SessionRepository, taskQueue taskqueue.TaskQueue, adherenceMetrics *metrics.AdherenceMetrics) *Reconciler {
	return &Reconciler{
		repo:      repo,
		taskQueue: taskQueue,
		metrics:   adherenceMetrics,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *Reconciler) sessionLock(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[sessionID] = lock
	}
	return lock
}

// ReleaseSession drops the in-process lock entry for a session that no
// longer exists. Called after history is cleared.
func (r *Reconciler) ReleaseSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, sessionID)
}

// Reconcile installs the plan for its session, superseding whatever was
// installed before. The plan's UserID context travels in the task payload.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, plan *domain.NotificationPlan) (*Result, error) {
	if r.taskQueue == nil {
		// Scheduling disabled; status evaluation still works without it.
		return &Result{}, nil
	}

	lock := r.sessionLock(plan.SessionID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	generation, err := r.repo.NextPlanGeneration(ctx, plan.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance plan generation: %w", err)
	}
	plan.Generation = generation

	ctx, span := tracing.StartReconcileSpan(ctx, plan.SessionID, generation, len(plan.Entries))
	defer span.End()

	result := &Result{Generation: generation}

	cancelled, err := r.cancelInstalled(ctx, plan.SessionID)
	if err != nil {
		// Leave the old state in place: the plan is a rebuildable
		// projection and the caller retries the whole recomputation.
		return nil, err
	}
	result.Cancelled = cancelled
	r.metrics.RecordEntriesCancelled(ctx, cancelled)

	installed, dropped, err := r.installEntries(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	result.Scheduled = len(installed)
	result.Dropped = dropped
	r.metrics.RecordEntriesScheduled(ctx, len(installed))
	r.metrics.RecordEntriesDropped(ctx, dropped)

	if err := r.commitState(ctx, plan, installed); err != nil {
		if errors.Is(err, domain.ErrPlanSuperseded) {
			r.metrics.RecordSuperseded(ctx)
			r.rollbackInstalled(ctx, plan.SessionID, installed)
		}
		return nil, err
	}

	r.metrics.RecordReconcileDuration(ctx, time.Since(start).Seconds(), "reconcile")

	slog.InfoContext(ctx, "plan reconciled",
		slog.String("session_id", plan.SessionID),
		slog.Int64("generation", generation),
		slog.Int("cancelled", result.Cancelled),
		slog.Int("scheduled", result.Scheduled),
		slog.Int("dropped", result.Dropped),
	)

	return result, nil
}

// Clear cancels everything installed for a session and removes its plan
// state. Used when history is cleared and the session ID itself goes away.
func (r *Reconciler) Clear(ctx context.Context, sessionID string) (int, error) {
	if r.taskQueue == nil {
		return 0, nil
	}

	lock := r.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cancelled, err := r.cancelInstalled(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	r.metrics.RecordEntriesCancelled(ctx, cancelled)

	if err := r.repo.DeletePlanState(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrPlanNotFound) {
		return cancelled, fmt.Errorf("failed to delete plan state: %w", err)
	}

	return cancelled, nil
}

func (r *Reconciler) cancelInstalled(ctx context.Context, sessionID string) (int, error) {
	state, err := r.repo.GetPlanState(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load installed plan state: %w", err)
	}

	cancelled := 0
	for _, taskID := range state.InstalledTaskIDs {
		// The client already treats an absent task as cancelled; an
		// error here means the queue itself is unreachable.
		if err := r.taskQueue.CancelNotification(ctx, taskID); err != nil {
			return cancelled, fmt.Errorf("failed to cancel installed entry %s: %w", taskID, err)
		}
		cancelled++
	}

	return cancelled, nil
}

func (r *Reconciler) installEntries(ctx context.Context, userID string, plan *domain.NotificationPlan) ([]string, int, error) {
	installed := make([]string, 0, len(plan.Entries))
	dropped := 0

	for _, entry := range plan.Entries {
		taskID := plan.EntryTaskID(entry.Index)
		task := &taskqueue.NotificationTask{
			TaskID:     taskID,
			SessionID:  plan.SessionID,
			UserID:     userID,
			ScheduleAt: entry.FireAt,
			Title:      entry.Title,
			Body:       entry.Body,
		}

		if _, err := r.taskQueue.ScheduleNotification(ctx, task); err != nil {
			// A single bad entry does not abort the rest of the plan.
			slog.WarnContext(ctx, "dropping plan entry after scheduling failure",
				slog.String("session_id", plan.SessionID),
				slog.String("task_id", taskID),
				slog.Time("fire_at", entry.FireAt),
				slog.String("error", err.Error()),
			)
			dropped++
			continue
		}
		installed = append(installed, taskID)
	}

	if len(plan.Entries) > 0 && len(installed) == 0 {
		return nil, dropped, fmt.Errorf("failed to install any of %d plan entries", len(plan.Entries))
	}

	return installed, dropped, nil
}

func (r *Reconciler) commitState(ctx context.Context, plan *domain.NotificationPlan, installed []string) error {
	current, err := r.repo.GetPlanState(ctx, plan.SessionID)
	if err != nil && !errors.Is(err, domain.ErrPlanNotFound) {
		return fmt.Errorf("failed to check current plan state: %w", err)
	}
	if current != nil && current.Generation > plan.Generation {
		return domain.ErrPlanSuperseded
	}

	if len(installed) == 0 {
		if err := r.repo.DeletePlanState(ctx, plan.SessionID); err != nil && !errors.Is(err, domain.ErrPlanNotFound) {
			return fmt.Errorf("failed to delete plan state: %w", err)
		}
		return nil
	}

	state := &domain.PlanState{
		SessionID:        plan.SessionID,
		Generation:       plan.Generation,
		InstalledTaskIDs: installed,
		InstalledAt:      time.Now().UTC(),
	}
	if err := r.repo.SavePlanState(ctx, state); err != nil {
		return fmt.Errorf("failed to save plan state: %w", err)
	}
	return nil
}

// rollbackInstalled best-effort cancels entries installed by a
// reconciliation that lost the generation race.
func (r *Reconciler) rollbackInstalled(ctx context.Context, sessionID string, installed []string) {
	for _, taskID := range installed {
		if err := r.taskQueue.CancelNotification(ctx, taskID); err != nil {
			slog.WarnContext(ctx, "failed to roll back superseded entry",
				slog.String("session_id", sessionID),
				slog.String("task_id", taskID),
				slog.String("error", err.Error()),
			)
		}
	}
}
