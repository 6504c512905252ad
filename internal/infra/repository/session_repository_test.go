package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/service/protection"
	"github.com/dosewatch/adherence/internal/testutil"
)

func TestSessionRepository_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	start := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	session := domain.NewSession("user-1")
	session.Start(start)
	if _, err := session.AddDose(start.Add(23*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	if err := repo.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	got, err := repo.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	if got.ID != session.ID || got.UserID != session.UserID {
		t.Errorf("GetSession() identity = %s/%s, want %s/%s", got.ID, got.UserID, session.ID, session.UserID)
	}
	if !got.Active || !got.NotificationsEnabled {
		t.Errorf("GetSession() active=%v notifications=%v, want true/true", got.Active, got.NotificationsEnabled)
	}
	if len(got.Events) != len(session.Events) {
		t.Fatalf("GetSession() events = %d, want %d", len(got.Events), len(session.Events))
	}
	for i, e := range got.Events {
		want := session.Events[i]
		if e.ID != want.ID || !e.Time.Equal(want.Time) || e.Pills != want.Pills || e.Kind != want.Kind {
			t.Errorf("GetSession() event %d = %+v, want %+v", i, e, want)
		}
	}
}

func TestSessionRepository_RoundTripPreservesAssessment(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)
	calc := protection.NewCalculator(protection.DefaultWindows())

	start := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	session := domain.NewSession("user-1")
	session.Start(start)
	if _, err := session.AddDose(start.Add(24*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	if err := repo.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	got, err := repo.GetSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	// Persistence must not change what the calculator sees.
	now := start.Add(25 * time.Hour)
	before := calc.Evaluate(session.Events, session.Active, now)
	after := calc.Evaluate(got.Events, got.Active, now)
	if before != after {
		t.Errorf("assessment changed across persistence: %+v vs %+v", before, after)
	}
}

func TestSessionRepository_GetSession_NotFound(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	if _, err := repo.GetSession(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("GetSession() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_DeleteSession(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	session := domain.NewSession("user-1")
	session.Start(time.Now().UTC())
	if err := repo.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if err := repo.DeleteSession(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := repo.GetSession(ctx, "user-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("GetSession() after delete error = %v, want ErrSessionNotFound", err)
	}

	// Deleting again is not an error.
	if err := repo.DeleteSession(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteSession() second call error = %v", err)
	}
}

func TestSessionRepository_PlanStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	state := &domain.PlanState{
		SessionID:        "sess-1",
		Generation:       3,
		InstalledTaskIDs: []string{"sess-1_0", "sess-1_1", "sess-1_2"},
		InstalledAt:      time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC),
	}

	if err := repo.SavePlanState(ctx, state); err != nil {
		t.Fatalf("SavePlanState() error = %v", err)
	}

	got, err := repo.GetPlanState(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetPlanState() error = %v", err)
	}
	if got.Generation != 3 {
		t.Errorf("GetPlanState() generation = %d, want 3", got.Generation)
	}
	if len(got.InstalledTaskIDs) != 3 || got.InstalledTaskIDs[2] != "sess-1_2" {
		t.Errorf("GetPlanState() task ids = %v", got.InstalledTaskIDs)
	}

	if err := repo.DeletePlanState(ctx, "sess-1"); err != nil {
		t.Fatalf("DeletePlanState() error = %v", err)
	}
	if _, err := repo.GetPlanState(ctx, "sess-1"); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("GetPlanState() after delete error = %v, want ErrPlanNotFound", err)
	}
}

func TestSessionRepository_NextPlanGeneration(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextPlanGeneration(ctx, "sess-1")
		if err != nil {
			t.Fatalf("NextPlanGeneration() error = %v", err)
		}
		if got != want {
			t.Errorf("NextPlanGeneration() = %d, want %d", got, want)
		}
	}

	// Counters are per session.
	got, err := repo.NextPlanGeneration(ctx, "sess-2")
	if err != nil {
		t.Fatalf("NextPlanGeneration() error = %v", err)
	}
	if got != 1 {
		t.Errorf("NextPlanGeneration() for second session = %d, want 1", got)
	}
}

func TestSessionRepository_SaveSession_Invalid(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSessionRepository(client)

	if err := repo.SaveSession(ctx, nil); !errors.Is(err, ErrInvalidSessionData) {
		t.Errorf("SaveSession(nil) error = %v, want ErrInvalidSessionData", err)
	}
	if err := repo.SaveSession(ctx, &domain.Session{}); !errors.Is(err, ErrInvalidSessionData) {
		t.Errorf("SaveSession(empty user) error = %v, want ErrInvalidSessionData", err)
	}
}
