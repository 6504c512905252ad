package domain

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionInactive  = errors.New("session is not active")
	ErrEventOutOfOrder  = errors.New("event out of chronological order")
	ErrInvalidPillCount = errors.New("pill count must be non-negative")
	ErrPlanNotFound     = errors.New("plan state not found")
	ErrPlanSuperseded   = errors.New("plan superseded by newer generation")
)
