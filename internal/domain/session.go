package domain

import (
	"time"

	"github.com/google/uuid"
)

// startPillCount is the loading dose recorded when a session begins.
const startPillCount = 2

// Session is one user's on-demand dosing session: the ordered dose events
// plus whether dosing is still ongoing. A session has a single writer; all
// mutation goes through the methods below.
type Session struct {
	ID     string      `json:"id"`
	UserID string      `json:"user_id"`
	Events []DoseEvent `json:"events"`
	Active bool        `json:"active"`

	// NotificationsEnabled gates reminder planning for this session.
	// Status evaluation is unaffected.
	NotificationsEnabled bool `json:"notifications_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Events:               make([]DoseEvent, 0),
		NotificationsEnabled: true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Start resets the session to a fresh active one holding a single start
// event with the loading dose. Any previously recorded events are
// discarded; a session has exactly one start and it is always first.
func (s *Session) Start(t time.Time) DoseEvent {
	event := NewDoseEvent(t, startPillCount, KindStart)
	s.Events = []DoseEvent{event}
	s.Active = true
	s.UpdatedAt = time.Now().UTC()
	return event
}

// AddDose appends a dose event to an active session. Events are kept
// sorted by time with a stable sort, so same-second doses retain their
// insertion order. A dose earlier than the start event is rejected.
func (s *Session) AddDose(t time.Time, pills int) (DoseEvent, error) {
	if !s.Active {
		return DoseEvent{}, ErrSessionInactive
	}
	if pills < 0 {
		return DoseEvent{}, ErrInvalidPillCount
	}
	if first := s.FirstDose(); first != nil && t.Before(first.Time) {
		return DoseEvent{}, ErrEventOutOfOrder
	}

	event := NewDoseEvent(t, pills, KindDose)
	s.Events = append(s.Events, event)
	SortEventsByTime(s.Events)
	s.UpdatedAt = time.Now().UTC()
	return event, nil
}

// End appends a stop event and marks the session inactive. The stop event
// is always chronologically last.
func (s *Session) End(t time.Time) (DoseEvent, error) {
	if !s.Active {
		return DoseEvent{}, ErrSessionInactive
	}
	if last := s.LastDose(); last != nil && t.Before(last.Time) {
		t = last.Time
	}

	event := NewDoseEvent(t, 0, KindStop)
	s.Events = append(s.Events, event)
	s.Active = false
	s.UpdatedAt = time.Now().UTC()
	return event, nil
}

// Doses returns the session's non-stop events sorted ascending by time.
func (s *Session) Doses() []DoseEvent {
	return Doses(s.Events)
}

// FirstDose returns the start event, or nil when the session has none.
func (s *Session) FirstDose() *DoseEvent {
	for _, e := range s.Doses() {
		if e.Kind.IsStart() {
			d := e
			return &d
		}
	}
	return nil
}

// LastDose returns the most recent non-stop event, or nil.
func (s *Session) LastDose() *DoseEvent {
	doses := s.Doses()
	if len(doses) == 0 {
		return nil
	}
	d := doses[len(doses)-1]
	return &d
}

// PrunedEvents returns the events no older than maxAge before now.
// Pruning applies to what callers see; durable storage keeps the full
// record until the session is cleared.
func (s *Session) PrunedEvents(now time.Time, maxAge time.Duration) []DoseEvent {
	cutoff := now.Add(-maxAge)
	kept := make([]DoseEvent, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Time.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	SortEventsByTime(kept)
	return kept
}
