package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies a dose event within a session.
type EventKind string

const (
	KindStart EventKind = "start"
	KindDose  EventKind = "dose"
	KindStop  EventKind = "stop"
)

func (k EventKind) String() string {
	return string(k)
}

func (k EventKind) IsStart() bool {
	return k == KindStart
}

func (k EventKind) IsStop() bool {
	return k == KindStop
}

func (k EventKind) Valid() bool {
	switch k {
	case KindStart, KindDose, KindStop:
		return true
	}
	return false
}

// DoseEvent is a timestamped record of pills taken, or of a session
// starting or stopping.
type DoseEvent struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Pills int       `json:"pills"`
	Kind  EventKind `json:"kind"`
}

func NewDoseEvent(t time.Time, pills int, kind EventKind) DoseEvent {
	return DoseEvent{
		ID:    uuid.NewString(),
		Time:  t.UTC(),
		Pills: pills,
		Kind:  kind,
	}
}

// SortEventsByTime orders events ascending by time. The sort is stable so
// that events recorded in the same second keep their insertion order.
func SortEventsByTime(events []DoseEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
}

// Doses returns the non-stop events of the given slice, sorted ascending
// by time. The input slice is not modified.
func Doses(events []DoseEvent) []DoseEvent {
	doses := make([]DoseEvent, 0, len(events))
	for _, e := range events {
		if e.Kind.IsStop() {
			continue
		}
		doses = append(doses, e)
	}
	SortEventsByTime(doses)
	return doses
}
