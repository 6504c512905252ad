package schedule

import (
	"fmt"
	"time"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/service/protection"
)

// Planner derives the set of future reminder notifications for a session.
// Planning is deterministic: the same session and now always produce the
// same ordered entries, so recomputation is safe to repeat.
type Planner struct {
	windows protection.Windows
}

func NewPlanner(windows protection.Windows) *Planner {
	return &Planner{windows: windows}
}

// Plan computes the notification plan for the session at now. The plan is
// empty when the session is inactive, has no doses, or has notifications
// switched off. Entries whose fire time is not strictly after now are
// dropped; reminders are never scheduled into the past.
func (p *Planner) Plan(session *domain.Session, now time.Time) *domain.NotificationPlan {
	plan := domain.NewNotificationPlan(session.ID)

	if !session.Active || !session.NotificationsEnabled {
		return plan
	}

	doses := session.Doses()
	if len(doses) == 0 {
		return plan
	}

	first := doses[0]
	last := doses[len(doses)-1]

	add := func(fireAt time.Time, title, body string) {
		if !fireAt.After(now) {
			return
		}
		plan.AddEntry(fireAt, title, body)
	}

	// Only the very first dose of a session gets the protection-active
	// notification.
	if len(doses) == 1 && first.Kind.IsStart() {
		add(first.Time.Add(p.windows.ProtectionStart),
			"Protection active",
			"Your on-demand protection is now active.",
		)
	}

	reminderStart := last.Time.Add(p.windows.ReminderOffset)
	reminderEnd := last.Time.Add(p.windows.LapseOffset)
	windowHours := int(p.windows.LapseOffset.Hours() - p.windows.ReminderOffset.Hours())

	add(reminderStart,
		"Dose window open",
		fmt.Sprintf("Take your next dose within the next %d hours.", windowHours),
	)

	// Insistent reminders inside the due window, strictly before its end.
	windowSpan := p.windows.LapseOffset - p.windows.ReminderOffset
	for offset := p.windows.ReminderInterval; offset <= windowSpan; offset += p.windows.ReminderInterval {
		fireAt := reminderStart.Add(offset)
		if !fireAt.Before(reminderEnd) {
			break
		}
		add(fireAt,
			"Dose due",
			fmt.Sprintf("Take your dose now. %s until protection lapses.",
				protection.FormatCountdown(reminderEnd.Sub(fireAt))),
		)
	}

	add(reminderEnd,
		"Dose missed",
		"Protection is no longer guaranteed. Start a new session when you are ready.",
	)

	return plan
}
