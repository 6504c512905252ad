package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dosewatch/adherence/internal/domain"
)

const (
	sessionKeyPrefix        = "adherence:session:"
	planStateKeyPrefix      = "adherence:plan:"
	planGenerationKeyPrefix = "adherence:plangen:"

	// Plan bookkeeping outlives the longest future fire time by a wide
	// margin; the session record itself has no TTL.
	planStateTTL = 7 * 24 * time.Hour
)

type doseEventRecord struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Pills int       `json:"pills"`
	Kind  string    `json:"kind"`
}

type sessionRecord struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	Events               []doseEventRecord `json:"events"`
	Active               bool              `json:"active"`
	NotificationsEnabled bool              `json:"notifications_enabled"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

type planStateRecord struct {
	SessionID        string    `json:"session_id"`
	Generation       int64     `json:"generation"`
	InstalledTaskIDs []string  `json:"installed_task_ids"`
	InstalledAt      time.Time `json:"installed_at"`
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRepository{
		client: client,
	}
}

func (r *sessionRepository) GetSession(ctx context.Context, userID string) (*domain.Session, error) {
	key := sessionKeyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidSessionData
	}

	events := make([]domain.DoseEvent, 0, len(record.Events))
	for _, e := range record.Events {
		events = append(events, domain.DoseEvent{
			ID:    e.ID,
			Time:  e.Time,
			Pills: e.Pills,
			Kind:  domain.EventKind(e.Kind),
		})
	}

	return &domain.Session{
		ID:                   record.ID,
		UserID:               record.UserID,
		Events:               events,
		Active:               record.Active,
		NotificationsEnabled: record.NotificationsEnabled,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}, nil
}

func (r *sessionRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	if session == nil || session.UserID == "" {
		return ErrInvalidSessionData
	}

	events := make([]doseEventRecord, 0, len(session.Events))
	for _, e := range session.Events {
		events = append(events, doseEventRecord{
			ID:    e.ID,
			Time:  e.Time,
			Pills: e.Pills,
			Kind:  e.Kind.String(),
		})
	}

	record := sessionRecord{
		ID:                   session.ID,
		UserID:               session.UserID,
		Events:               events,
		Active:               session.Active,
		NotificationsEnabled: session.NotificationsEnabled,
		CreatedAt:            session.CreatedAt,
		UpdatedAt:            session.UpdatedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidSessionData
	}

	return r.client.Set(ctx, sessionKeyPrefix+session.UserID, data, 0).Err()
}

func (r *sessionRepository) DeleteSession(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKeyPrefix+userID).Err()
}

func (r *sessionRepository) GetPlanState(ctx context.Context, sessionID string) (*domain.PlanState, error) {
	key := planStateKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	var record planStateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidPlanStateData
	}

	return &domain.PlanState{
		SessionID:        record.SessionID,
		Generation:       record.Generation,
		InstalledTaskIDs: record.InstalledTaskIDs,
		InstalledAt:      record.InstalledAt,
	}, nil
}

func (r *sessionRepository) SavePlanState(ctx context.Context, state *domain.PlanState) error {
	if state == nil || state.SessionID == "" {
		return ErrInvalidPlanStateData
	}

	record := planStateRecord{
		SessionID:        state.SessionID,
		Generation:       state.Generation,
		InstalledTaskIDs: state.InstalledTaskIDs,
		InstalledAt:      state.InstalledAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidPlanStateData
	}

	return r.client.Set(ctx, planStateKeyPrefix+state.SessionID, data, planStateTTL).Err()
}

func (r *sessionRepository) DeletePlanState(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, planStateKeyPrefix+sessionID).Err()
}

func (r *sessionRepository) NextPlanGeneration(ctx context.Context, sessionID string) (int64, error) {
	key := planGenerationKeyPrefix + sessionID

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, planStateTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
