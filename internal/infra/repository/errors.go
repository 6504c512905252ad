package repository

import "errors"

var (
	ErrInvalidSessionData   = errors.New("invalid session data")
	ErrInvalidPlanStateData = errors.New("invalid plan state data")
)
