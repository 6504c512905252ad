package domain

import (
	"fmt"
	"time"
)

// PlanEntry is one future notification in a plan. Its task ID is derived
// from the session ID and the entry index, so a later reconciliation can
// address previously installed tasks without durable delivery handles.
type PlanEntry struct {
	Index  int       `json:"index"`
	FireAt time.Time `json:"fire_at"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
}

// NotificationPlan is the derived set of future notification instants for
// one session. It is always recomputable from the session and never the
// source of truth; Generation orders plans so a stale reconciliation can
// be detected.
type NotificationPlan struct {
	SessionID  string      `json:"session_id"`
	Generation int64       `json:"generation"`
	Entries    []PlanEntry `json:"entries"`
	PlannedAt  time.Time   `json:"planned_at"`
}

func NewNotificationPlan(sessionID string) *NotificationPlan {
	return &NotificationPlan{
		SessionID: sessionID,
		Entries:   make([]PlanEntry, 0),
		PlannedAt: time.Now().UTC(),
	}
}

func (p *NotificationPlan) AddEntry(fireAt time.Time, title, body string) {
	p.Entries = append(p.Entries, PlanEntry{
		Index:  len(p.Entries),
		FireAt: fireAt,
		Title:  title,
		Body:   body,
	})
}

func (p *NotificationPlan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// EntryTaskID returns the task queue ID for the entry at index.
func (p *NotificationPlan) EntryTaskID(index int) string {
	return EntryTaskID(p.SessionID, index)
}

func EntryTaskID(sessionID string, index int) string {
	return fmt.Sprintf("%s_%d", sessionID, index)
}

// PlanState is what reconciliation persists about the currently installed
// plan: which generation is live and which task IDs it installed, so the
// next reconciliation can cancel them.
type PlanState struct {
	SessionID        string    `json:"session_id"`
	Generation       int64     `json:"generation"`
	InstalledTaskIDs []string  `json:"installed_task_ids"`
	InstalledAt      time.Time `json:"installed_at"`
}
