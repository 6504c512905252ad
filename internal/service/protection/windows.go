package protection

import (
	"time"

	"github.com/dosewatch/adherence/internal/config"
)

// Windows holds the temporal constants of the dosing schedule, shared by
// the calculator and the reminder planner.
type Windows struct {
	// ProtectionStart is how long after the first dose protection begins.
	ProtectionStart time.Duration
	// ReminderOffset is how long after the most recent dose the next dose
	// becomes due.
	ReminderOffset time.Duration
	// LapseOffset is how long after the most recent dose protection is
	// considered broken without a new dose.
	LapseOffset time.Duration
	// ReminderInterval is the cadence of insistent reminders inside the
	// due window.
	ReminderInterval time.Duration
	// MaxHistory is the retention horizon for events returned to callers.
	MaxHistory time.Duration
}

func DefaultWindows() Windows {
	return Windows{
		ProtectionStart:  2 * time.Hour,
		ReminderOffset:   22 * time.Hour,
		LapseOffset:      26 * time.Hour,
		ReminderInterval: 10 * time.Minute,
		MaxHistory:       90 * 24 * time.Hour,
	}
}

func WindowsFromConfig(cfg *config.AdherenceConfig) Windows {
	if cfg == nil {
		return DefaultWindows()
	}
	return Windows{
		ProtectionStart:  time.Duration(cfg.ProtectionStartHours) * time.Hour,
		ReminderOffset:   time.Duration(cfg.DoseWindowStartHours) * time.Hour,
		LapseOffset:      time.Duration(cfg.DoseWindowEndHours) * time.Hour,
		ReminderInterval: time.Duration(cfg.ReminderIntervalMinutes) * time.Minute,
		MaxHistory:       time.Duration(cfg.MaxHistoryDays) * 24 * time.Hour,
	}
}
