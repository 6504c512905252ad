package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dosewatch/adherence/internal/clock"
	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/observability/metrics"
	"github.com/dosewatch/adherence/internal/observability/tracing"
	"github.com/dosewatch/adherence/internal/service/protection"
	"github.com/dosewatch/adherence/internal/service/schedule"
)

// Service owns the session lifecycle: it applies dose events, persists
// the session, re-evaluates protection status, and replaces the
// installed reminder plan. The calculator stays pure; every side effect
// funnels through here.
type Service struct {
	repo       domain.SessionRepository
	calculator *protection.Calculator
	planner    *schedule.Planner
	reconciler *schedule.Reconciler
	recorder   domain.AdherenceRecorder
	metrics    *metrics.AdherenceMetrics
	clock      clock.Clock
}

func NewService(
	repo domain.SessionRepository,
	calculator *protection.Calculator,
	planner *schedule.Planner,
	reconciler *schedule.Reconciler,
	recorder domain.AdherenceRecorder,
	adherenceMetrics *metrics.AdherenceMetrics,
	clk clock.Clock,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		repo:       repo,
		calculator: calculator,
		planner:    planner,
		reconciler: reconciler,
		recorder:   recorder,
		metrics:    adherenceMetrics,
		clock:      clk,
	}
}

// StatusResult is what callers see after any lifecycle operation.
type StatusResult struct {
	SessionID  string
	Active     bool
	Assessment protection.Assessment
	Events     []domain.DoseEvent
}

// StartSession begins a fresh session for the user, discarding any prior
// one. The previous session's installed reminders are cancelled before
// the new plan goes in, so nothing from the old session can fire.
func (s *Service) StartSession(ctx context.Context, userID string, at time.Time, notificationsEnabled bool) (*StatusResult, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}

	previous, err := s.repo.GetSession(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if previous != nil {
		if _, err := s.reconciler.Clear(ctx, previous.ID); err != nil {
			return nil, fmt.Errorf("failed to clear previous session plan: %w", err)
		}
		s.reconciler.ReleaseSession(previous.ID)
	}

	session := domain.NewSession(userID)
	session.NotificationsEnabled = notificationsEnabled
	session.Start(at)

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.InfoContext(ctx, "session started",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Time("start_time", at),
	)

	return s.recompute(ctx, session, "start")
}

// AddDose records a dose on the active session and replaces the reminder
// plan anchored on it.
func (s *Service) AddDose(ctx context.Context, userID string, at time.Time, pills int) (*StatusResult, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}

	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := session.AddDose(at, pills)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.InfoContext(ctx, "dose recorded",
		slog.String("session_id", session.ID),
		slog.String("event_id", event.ID),
		slog.Time("dose_time", at),
		slog.Int("pills", pills),
	)

	return s.recompute(ctx, session, "dose")
}

// EndSession stops the active session. The plan collapses to empty,
// which cancels every still-pending reminder.
func (s *Service) EndSession(ctx context.Context, userID string) (*StatusResult, error) {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := session.End(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.InfoContext(ctx, "session ended",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
	)

	return s.recompute(ctx, session, "end")
}

// ClearHistory discards the session entirely, cancelling all installed
// reminders for it.
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	cancelled, err := s.reconciler.Clear(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to clear session plan: %w", err)
	}
	s.reconciler.ReleaseSession(session.ID)

	if err := s.repo.DeleteSession(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.InfoContext(ctx, "history cleared",
		slog.String("session_id", session.ID),
		slog.String("user_id", userID),
		slog.Int("cancelled", cancelled),
	)

	return nil
}

// Status evaluates the current protection status without mutating
// anything.
func (s *Service) Status(ctx context.Context, userID string) (*StatusResult, error) {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return &StatusResult{
				Assessment: s.calculator.Evaluate(nil, false, s.clock.Now()),
				Events:     []domain.DoseEvent{},
			}, nil
		}
		return nil, err
	}

	now := s.clock.Now()
	assessment := s.evaluate(ctx, session, now)

	return &StatusResult{
		SessionID:  session.ID,
		Active:     session.Active,
		Assessment: assessment,
		Events:     session.PrunedEvents(now, s.calculator.Windows().MaxHistory),
	}, nil
}

// Recompute re-derives the plan for the session without changing it.
// Driven by the periodic tick so the installed plan tracks wall-clock
// progress even when the user records nothing.
func (s *Service) Recompute(ctx context.Context, userID string) (*StatusResult, error) {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, session, "tick")
}

func (s *Service) recompute(ctx context.Context, session *domain.Session, trigger string) (*StatusResult, error) {
	now := s.clock.Now()
	assessment := s.evaluate(ctx, session, now)

	plan := s.planner.Plan(session, now)
	result, err := s.reconciler.Reconcile(ctx, session.UserID, plan)
	if err != nil {
		// The session state is already saved; the plan is a derived
		// projection the caller can retry.
		return nil, fmt.Errorf("failed to reconcile notification plan: %w", err)
	}

	s.record(ctx, session, assessment, plan, result, trigger)

	return &StatusResult{
		SessionID:  session.ID,
		Active:     session.Active,
		Assessment: assessment,
		Events:     session.PrunedEvents(now, s.calculator.Windows().MaxHistory),
	}, nil
}

func (s *Service) evaluate(ctx context.Context, session *domain.Session, now time.Time) protection.Assessment {
	_, span := tracing.StartEvaluateSpan(ctx, session.ID, len(session.Events))
	defer span.End()

	assessment := s.calculator.Evaluate(session.Events, session.Active, now)
	s.metrics.RecordStatusEvaluation(ctx, assessment.Status.String())
	return assessment
}

func (s *Service) record(ctx context.Context, session *domain.Session, assessment protection.Assessment, plan *domain.NotificationPlan, result *schedule.Result, trigger string) {
	if s.recorder == nil {
		return
	}

	record := domain.ReconcileRecord{
		SessionID:      session.ID,
		UserID:         session.UserID,
		Status:         assessment.Status.String(),
		Trigger:        trigger,
		Generation:     result.Generation,
		CancelledCount: result.Cancelled,
		ScheduledCount: result.Scheduled,
		DroppedCount:   result.Dropped,
	}
	if !plan.IsEmpty() {
		record.FirstFireAt = plan.Entries[0].FireAt
		record.LastFireAt = plan.Entries[len(plan.Entries)-1].FireAt
	}

	if err := s.recorder.RecordReconcile(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record reconciliation",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}
