package domain

import "context"

//go:generate mockgen -source=session_repository.go -destination=session_repository_mock.go -package=domain

// SessionRepository stores sessions and the per-session installed plan
// state. A missing session or plan state is reported with
// ErrSessionNotFound / ErrPlanNotFound.
type SessionRepository interface {
	GetSession(ctx context.Context, userID string) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, userID string) error

	GetPlanState(ctx context.Context, sessionID string) (*PlanState, error)
	SavePlanState(ctx context.Context, state *PlanState) error
	DeletePlanState(ctx context.Context, sessionID string) error

	// NextPlanGeneration atomically advances and returns the plan
	// generation counter for a session.
	NextPlanGeneration(ctx context.Context, sessionID string) (int64, error)
}
