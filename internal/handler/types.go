package handler

import (
	"time"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/service/protection"
	"github.com/dosewatch/adherence/internal/service/session"
)

type StartSessionRequest struct {
	UserID        string     `json:"user_id" binding:"required"`
	Time          *time.Time `json:"time,omitempty"`
	Notifications *bool      `json:"notifications,omitempty"`
}

type AddDoseRequest struct {
	UserID string     `json:"user_id" binding:"required"`
	Time   *time.Time `json:"time,omitempty"`
	Pills  int        `json:"pills" binding:"min=0"`
}

type EndSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type UserQuery struct {
	UserID string `form:"user_id" binding:"required"`
}

type DoseEventResponse struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Pills int       `json:"pills"`
	Kind  string    `json:"kind"`
}

type StatusResponse struct {
	SessionID        string              `json:"session_id,omitempty"`
	Active           bool                `json:"active"`
	Status           string              `json:"status"`
	Urgent           bool                `json:"urgent"`
	CountdownSeconds int64               `json:"countdown_seconds"`
	CountdownText    string              `json:"countdown_text"`
	ProtectedUntil   *time.Time          `json:"protected_until,omitempty"`
	Events           []DoseEventResponse `json:"events"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusResponse(result *session.StatusResult) StatusResponse {
	events := make([]DoseEventResponse, 0, len(result.Events))
	for _, e := range result.Events {
		events = append(events, DoseEventResponse{
			ID:    e.ID,
			Time:  e.Time,
			Pills: e.Pills,
			Kind:  e.Kind.String(),
		})
	}

	resp := StatusResponse{
		SessionID:        result.SessionID,
		Active:           result.Active,
		Status:           result.Assessment.Status.String(),
		Urgent:           result.Assessment.Urgent,
		CountdownSeconds: result.Assessment.CountdownSeconds,
		CountdownText:    result.Assessment.CountdownText,
		Events:           events,
	}
	if hasProtectedUntil(result.Assessment) {
		t := result.Assessment.ProtectedUntil
		resp.ProtectedUntil = &t
	}
	return resp
}

func hasProtectedUntil(a protection.Assessment) bool {
	return a.Status != domain.StatusInactive && !a.ProtectedUntil.IsZero()
}
