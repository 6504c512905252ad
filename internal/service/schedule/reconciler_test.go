package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/infra/taskqueue"
)

func testPlan(sessionID string, entryCount int) *domain.NotificationPlan {
	plan := domain.NewNotificationPlan(sessionID)
	for i := 0; i < entryCount; i++ {
		plan.AddEntry(base.Add(time.Duration(i+1)*time.Hour), "Dose due", "Take your dose now.")
	}
	return plan
}

func TestReconciler_Reconcile_InstallsFreshPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 2)
	ctx := context.Background()

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(1), nil)
	// No previously installed plan.
	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(nil, domain.ErrPlanNotFound).Times(2)
	tq.EXPECT().ScheduleNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil).Times(2)
	repo.EXPECT().SavePlanState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, state *domain.PlanState) error {
			if state.Generation != 1 {
				t.Errorf("SavePlanState generation = %d, want 1", state.Generation)
			}
			if len(state.InstalledTaskIDs) != 2 {
				t.Errorf("SavePlanState installed = %d, want 2", len(state.InstalledTaskIDs))
			}
			if state.InstalledTaskIDs[0] != "sess-1_0" {
				t.Errorf("SavePlanState task id = %q, want %q", state.InstalledTaskIDs[0], "sess-1_0")
			}
			return nil
		})

	result, err := r.Reconcile(ctx, "user-1", plan)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Scheduled != 2 || result.Cancelled != 0 || result.Dropped != 0 {
		t.Errorf("Reconcile() result = %+v", result)
	}
}

func TestReconciler_Reconcile_CancelsBeforeInstalling(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 1)
	ctx := context.Background()
	installed := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       1,
		InstalledTaskIDs: []string{"sess-1_0", "sess-1_1"},
	}

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(2), nil)
	gomock.InOrder(
		repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(installed, nil),
		tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_0").Return(nil),
		tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_1").Return(nil),
		tq.EXPECT().ScheduleNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil),
		repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(installed, nil),
		repo.EXPECT().SavePlanState(gomock.Any(), gomock.Any()).Return(nil),
	)

	result, err := r.Reconcile(ctx, "user-1", plan)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Cancelled != 2 || result.Scheduled != 1 {
		t.Errorf("Reconcile() result = %+v", result)
	}
}

func TestReconciler_Reconcile_EmptyPlanCancelsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := domain.NewNotificationPlan("sess-1")
	ctx := context.Background()
	installed := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       3,
		InstalledTaskIDs: []string{"sess-1_0"},
	}

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(4), nil)
	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(installed, nil).Times(2)
	tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_0").Return(nil)
	repo.EXPECT().DeletePlanState(gomock.Any(), "sess-1").Return(nil)

	result, err := r.Reconcile(ctx, "user-1", plan)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Cancelled != 1 || result.Scheduled != 0 {
		t.Errorf("Reconcile() result = %+v", result)
	}
}

func TestReconciler_Reconcile_QueueUnreachableAbortsBeforeInstall(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 2)
	ctx := context.Background()
	installed := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       1,
		InstalledTaskIDs: []string{"sess-1_0"},
	}

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(2), nil)
	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(installed, nil)
	tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_0").Return(errors.New("connection refused"))
	// No ScheduleNotification calls: the old plan stays in place.

	if _, err := r.Reconcile(ctx, "user-1", plan); err == nil {
		t.Fatal("Reconcile() error = nil, want error")
	}
}

func TestReconciler_Reconcile_DropsFailedEntryKeepsRest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 3)
	ctx := context.Background()

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(1), nil)
	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(nil, domain.ErrPlanNotFound).Times(2)
	tq.EXPECT().ScheduleNotification(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *taskqueue.NotificationTask) (*taskqueue.TaskResponse, error) {
			if task.TaskID == "sess-1_1" {
				return nil, errors.New("invalid schedule time")
			}
			return &taskqueue.TaskResponse{}, nil
		}).Times(3)
	repo.EXPECT().SavePlanState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, state *domain.PlanState) error {
			if len(state.InstalledTaskIDs) != 2 {
				t.Errorf("SavePlanState installed = %v, want 2 ids", state.InstalledTaskIDs)
			}
			return nil
		})

	result, err := r.Reconcile(ctx, "user-1", plan)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Scheduled != 2 || result.Dropped != 1 {
		t.Errorf("Reconcile() result = %+v", result)
	}
}

func TestReconciler_Reconcile_AllEntriesFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 2)
	ctx := context.Background()

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(1), nil)
	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(nil, domain.ErrPlanNotFound)
	tq.EXPECT().ScheduleNotification(gomock.Any(), gomock.Any()).Return(nil, errors.New("queue full")).Times(2)

	if _, err := r.Reconcile(ctx, "user-1", plan); err == nil {
		t.Fatal("Reconcile() error = nil, want error")
	}
}

func TestReconciler_Reconcile_SupersededRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	plan := testPlan("sess-1", 1)
	ctx := context.Background()
	newer := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       5,
		InstalledTaskIDs: []string{"sess-1_0"},
	}

	repo.EXPECT().NextPlanGeneration(ctx, "sess-1").Return(int64(2), nil)
	gomock.InOrder(
		repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(nil, domain.ErrPlanNotFound),
		tq.EXPECT().ScheduleNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil),
		// A later reconciliation committed while this one was installing.
		repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(newer, nil),
		tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_0").Return(nil),
	)

	_, err := r.Reconcile(ctx, "user-1", plan)
	if !errors.Is(err, domain.ErrPlanSuperseded) {
		t.Fatalf("Reconcile() error = %v, want ErrPlanSuperseded", err)
	}
}

func TestReconciler_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	ctx := context.Background()
	installed := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       2,
		InstalledTaskIDs: []string{"sess-1_0", "sess-1_1"},
	}

	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(installed, nil)
	tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_0").Return(nil)
	tq.EXPECT().CancelNotification(gomock.Any(), "sess-1_1").Return(nil)
	repo.EXPECT().DeletePlanState(gomock.Any(), "sess-1").Return(nil)

	cancelled, err := r.Clear(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cancelled != 2 {
		t.Errorf("Clear() cancelled = %d, want 2", cancelled)
	}
}

func TestReconciler_Clear_NothingInstalled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	r := NewReconciler(repo, tq, nil)

	repo.EXPECT().GetPlanState(gomock.Any(), "sess-1").Return(nil, domain.ErrPlanNotFound)
	repo.EXPECT().DeletePlanState(gomock.Any(), "sess-1").Return(domain.ErrPlanNotFound)

	cancelled, err := r.Clear(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cancelled != 0 {
		t.Errorf("Clear() cancelled = %d, want 0", cancelled)
	}
}

func TestReconciler_Reconcile_DisabledQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockSessionRepository(ctrl)
	r := NewReconciler(repo, nil, nil)

	result, err := r.Reconcile(context.Background(), "user-1", testPlan("sess-1", 2))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.Scheduled != 0 {
		t.Errorf("Reconcile() scheduled = %d, want 0", result.Scheduled)
	}
}
