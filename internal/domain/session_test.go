package domain

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

func TestSession_Start_ResetsHistory(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base.Add(-48 * time.Hour))
	if _, err := s.AddDose(base.Add(-24*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	s.Start(base)

	if len(s.Events) != 1 {
		t.Fatalf("Start() events = %d, want 1", len(s.Events))
	}
	if s.Events[0].Kind != KindStart {
		t.Errorf("Start() event kind = %v, want %v", s.Events[0].Kind, KindStart)
	}
	if s.Events[0].Pills != 2 {
		t.Errorf("Start() pills = %d, want 2", s.Events[0].Pills)
	}
	if !s.Active {
		t.Error("Start() active = false, want true")
	}
}

func TestSession_AddDose_KeepsChronologicalOrder(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base)

	// Doses arrive out of order (a backdated entry).
	if _, err := s.AddDose(base.Add(24*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}
	if _, err := s.AddDose(base.Add(12*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	for i := 1; i < len(s.Events); i++ {
		if s.Events[i].Time.Before(s.Events[i-1].Time) {
			t.Errorf("events out of order at %d: %v before %v", i, s.Events[i].Time, s.Events[i-1].Time)
		}
	}
}

func TestSession_AddDose_SameInstantKeepsInsertionOrder(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base)

	at := base.Add(12 * time.Hour)
	first, err := s.AddDose(at, 1)
	if err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}
	second, err := s.AddDose(at, 2)
	if err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	doses := s.Doses()
	if doses[1].ID != first.ID || doses[2].ID != second.ID {
		t.Errorf("same-instant doses reordered: got %s, %s", doses[1].ID, doses[2].ID)
	}
}

func TestSession_AddDose_Rejections(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base)

	if _, err := s.AddDose(base.Add(-time.Hour), 1); err != ErrEventOutOfOrder {
		t.Errorf("AddDose(before start) error = %v, want ErrEventOutOfOrder", err)
	}
	if _, err := s.AddDose(base.Add(time.Hour), -1); err != ErrInvalidPillCount {
		t.Errorf("AddDose(negative pills) error = %v, want ErrInvalidPillCount", err)
	}

	if _, err := s.End(base.Add(2 * time.Hour)); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if _, err := s.AddDose(base.Add(3*time.Hour), 1); err != ErrSessionInactive {
		t.Errorf("AddDose(after end) error = %v, want ErrSessionInactive", err)
	}
}

func TestSession_End_ClampsToLastDose(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base)
	if _, err := s.AddDose(base.Add(24*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	// Ending with a timestamp before the last dose keeps the stop marker
	// chronologically last.
	stop, err := s.End(base.Add(12 * time.Hour))
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if stop.Time.Before(base.Add(24 * time.Hour)) {
		t.Errorf("End() stop time = %v, want >= last dose", stop.Time)
	}
	if s.Active {
		t.Error("End() active = true, want false")
	}

	if _, err := s.End(base.Add(25 * time.Hour)); err != ErrSessionInactive {
		t.Errorf("End() twice error = %v, want ErrSessionInactive", err)
	}
}

func TestSession_Doses_ExcludesStop(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base)
	if _, err := s.AddDose(base.Add(12*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}
	if _, err := s.End(base.Add(13 * time.Hour)); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	doses := s.Doses()
	if len(doses) != 2 {
		t.Fatalf("Doses() = %d, want 2", len(doses))
	}
	for _, d := range doses {
		if d.Kind.IsStop() {
			t.Errorf("Doses() contains stop event %+v", d)
		}
	}
}

func TestSession_PrunedEvents(t *testing.T) {
	s := NewSession("user-1")
	s.Start(base.Add(-100 * 24 * time.Hour))
	if _, err := s.AddDose(base.Add(-10*24*time.Hour), 1); err != nil {
		t.Fatalf("AddDose() error = %v", err)
	}

	pruned := s.PrunedEvents(base, 90*24*time.Hour)

	if len(pruned) != 1 {
		t.Fatalf("PrunedEvents() = %d, want 1", len(pruned))
	}
	if pruned[0].Kind != KindDose {
		t.Errorf("PrunedEvents() kept %v, want the recent dose", pruned[0].Kind)
	}
	// The stored record is untouched.
	if len(s.Events) != 2 {
		t.Errorf("PrunedEvents() mutated stored events: %d", len(s.Events))
	}
}

func TestEntryTaskID(t *testing.T) {
	if got := EntryTaskID("sess-1", 4); got != "sess-1_4" {
		t.Errorf("EntryTaskID() = %q, want %q", got, "sess-1_4")
	}
}
