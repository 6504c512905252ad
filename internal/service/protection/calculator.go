package protection

import (
	"time"

	"github.com/dosewatch/adherence/internal/domain"
)

// Assessment is the display-facing result of evaluating a dose history.
type Assessment struct {
	Status domain.Status `json:"status"`
	// Urgent marks the effective state inside the due window, where the
	// countdown is time left to dose rather than time until it opens.
	Urgent bool `json:"urgent"`
	// Countdown is the time to the next status transition, clamped at
	// zero. Zero for terminal states.
	Countdown time.Duration `json:"-"`
	// CountdownSeconds and CountdownText are the wire rendering of
	// Countdown.
	CountdownSeconds int64  `json:"countdown_seconds"`
	CountdownText    string `json:"countdown_text"`
	// ProtectedUntil is when protection runs out without a further dose.
	// Set whenever a dose history exists.
	ProtectedUntil time.Time `json:"protected_until,omitempty"`
}

// Calculator derives protection status from a dose history. It is a pure
// function of its inputs: no I/O, no side effects, safe for any number of
// concurrent callers.
type Calculator struct {
	windows Windows
}

func NewCalculator(windows Windows) *Calculator {
	return &Calculator{windows: windows}
}

// Evaluate computes the protection status for the given events at now.
// Malformed input never produces an error; it coerces to the safest
// display state since the result drives UI directly.
func (c *Calculator) Evaluate(events []domain.DoseEvent, active bool, now time.Time) Assessment {
	doses := domain.Doses(events)
	if len(doses) == 0 {
		return Assessment{Status: domain.StatusInactive, CountdownText: "0s"}
	}

	first := doses[0]
	last := doses[len(doses)-1]
	protectedUntil := last.Time.Add(c.windows.LapseOffset)

	if !active {
		return Assessment{
			Status:         domain.StatusEnded,
			CountdownText:  "0s",
			ProtectedUntil: protectedUntil,
		}
	}

	// A gap between two recorded doses beyond the lapse offset voids the
	// protection guarantee regardless of where now falls. An overdue tail
	// with no follow-up dose is missed, not lapsed.
	for i := 1; i < len(doses); i++ {
		if doses[i].Time.Sub(doses[i-1].Time) > c.windows.LapseOffset {
			return Assessment{
				Status:         domain.StatusLapsed,
				CountdownText:  "0s",
				ProtectedUntil: protectedUntil,
			}
		}
	}

	protectionStart := first.Time.Add(c.windows.ProtectionStart)
	reminderStart := last.Time.Add(c.windows.ReminderOffset)
	reminderEnd := protectedUntil

	switch {
	case now.Before(protectionStart):
		return c.assessment(domain.StatusLoading, false, protectionStart.Sub(now), protectedUntil)
	case now.Before(reminderStart):
		return c.assessment(domain.StatusEffective, false, reminderStart.Sub(now), protectedUntil)
	case now.Before(reminderEnd):
		return c.assessment(domain.StatusEffective, true, reminderEnd.Sub(now), protectedUntil)
	default:
		return Assessment{
			Status:         domain.StatusMissed,
			CountdownText:  "0s",
			ProtectedUntil: protectedUntil,
		}
	}
}

func (c *Calculator) assessment(status domain.Status, urgent bool, countdown time.Duration, protectedUntil time.Time) Assessment {
	// Clock skew (an event recorded ahead of now) clamps to zero instead
	// of going negative.
	if countdown < 0 {
		countdown = 0
	}
	return Assessment{
		Status:           status,
		Urgent:           urgent,
		Countdown:        countdown,
		CountdownSeconds: int64(countdown / time.Second),
		CountdownText:    FormatCountdown(countdown),
		ProtectedUntil:   protectedUntil,
	}
}

// Windows returns the temporal constants the calculator evaluates with.
func (c *Calculator) Windows() Windows {
	return c.windows
}
