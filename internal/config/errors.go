package config

import "errors"

var (
	ErrRedisAddrMissing        = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB          = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidDoseWindow       = errors.New("DOSE_WINDOW_START_HOURS must be less than DOSE_WINDOW_END_HOURS")
	ErrInvalidReminderInterval = errors.New("DOSE_REMINDER_INTERVAL_MINUTES must fit inside the dose window")
	ErrTaskQueueTargetMissing  = errors.New("task queue target configuration is incomplete")
)
