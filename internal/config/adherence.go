package config

import (
	"os"
	"strconv"
)

const (
	protectionStartHoursEnv    = "PROTECTION_START_HOURS"
	doseWindowStartHoursEnv    = "DOSE_WINDOW_START_HOURS"
	doseWindowEndHoursEnv      = "DOSE_WINDOW_END_HOURS"
	reminderIntervalMinutesEnv = "DOSE_REMINDER_INTERVAL_MINUTES"
	maxHistoryDaysEnv          = "MAX_HISTORY_DAYS"

	defaultProtectionStartHours    = 2
	defaultDoseWindowStartHours    = 22
	defaultDoseWindowEndHours      = 26
	defaultReminderIntervalMinutes = 10
	defaultMaxHistoryDays          = 90
)

// AdherenceConfig holds the protection and reminder window constants.
// The defaults encode the on-demand dosing schedule; they are
// configurable so a schedule change does not need a code change.
type AdherenceConfig struct {
	ProtectionStartHours    int
	DoseWindowStartHours    int
	DoseWindowEndHours      int
	ReminderIntervalMinutes int
	MaxHistoryDays          int
}

func LoadAdherenceConfig() (*AdherenceConfig, error) {
	cfg := &AdherenceConfig{
		ProtectionStartHours:    defaultProtectionStartHours,
		DoseWindowStartHours:    defaultDoseWindowStartHours,
		DoseWindowEndHours:      defaultDoseWindowEndHours,
		ReminderIntervalMinutes: defaultReminderIntervalMinutes,
		MaxHistoryDays:          defaultMaxHistoryDays,
	}

	if v := os.Getenv(protectionStartHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.ProtectionStartHours = parsed
		}
	}
	if v := os.Getenv(doseWindowStartHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.DoseWindowStartHours = parsed
		}
	}
	if v := os.Getenv(doseWindowEndHoursEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.DoseWindowEndHours = parsed
		}
	}
	if v := os.Getenv(reminderIntervalMinutesEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.ReminderIntervalMinutes = parsed
		}
	}
	if v := os.Getenv(maxHistoryDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MaxHistoryDays = parsed
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AdherenceConfig) Validate() error {
	if c.DoseWindowStartHours >= c.DoseWindowEndHours {
		return ErrInvalidDoseWindow
	}
	if c.ReminderIntervalMinutes >= (c.DoseWindowEndHours-c.DoseWindowStartHours)*60 {
		return ErrInvalidReminderInterval
	}
	return nil
}
