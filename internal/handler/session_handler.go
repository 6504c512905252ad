package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dosewatch/adherence/internal/domain"
	"github.com/dosewatch/adherence/internal/service/session"
)

type SessionHandler struct {
	sessionService *session.Service
}

func NewSessionHandler(sessionService *session.Service) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) HandleStartSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	notifications := true
	if req.Notifications != nil {
		notifications = *req.Notifications
	}

	result, err := h.sessionService.StartSession(ctx, req.UserID, timeOrZero(req.Time), notifications)
	if err != nil {
		slog.ErrorContext(ctx, "failed to start session",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to start session")
		return
	}

	c.JSON(http.StatusCreated, statusResponse(result))
}

func (h *SessionHandler) HandleAddDose(c *gin.Context) {
	ctx := c.Request.Context()

	var req AddDoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.sessionService.AddDose(ctx, req.UserID, timeOrZero(req.Time), req.Pills)
	if err != nil {
		h.respondDomainError(c, req.UserID, "failed to record dose", err)
		return
	}

	c.JSON(http.StatusCreated, statusResponse(result))
}

func (h *SessionHandler) HandleEndSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.sessionService.EndSession(ctx, req.UserID)
	if err != nil {
		h.respondDomainError(c, req.UserID, "failed to end session", err)
		return
	}

	c.JSON(http.StatusOK, statusResponse(result))
}

func (h *SessionHandler) HandleClearHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var query UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.sessionService.ClearHistory(ctx, query.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to clear history",
			slog.String("user_id", query.UserID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to clear history")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) HandleStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var query UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.sessionService.Status(ctx, query.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to evaluate status",
			slog.String("user_id", query.UserID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to evaluate status")
		return
	}

	c.JSON(http.StatusOK, statusResponse(result))
}

// HandleRecompute replans reminders for a user without mutating the
// session. Wired to the scheduler tick.
func (h *SessionHandler) HandleRecompute(c *gin.Context) {
	ctx := c.Request.Context()

	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.sessionService.Recompute(ctx, req.UserID)
	if err != nil {
		h.respondDomainError(c, req.UserID, "failed to recompute plan", err)
		return
	}

	c.JSON(http.StatusOK, statusResponse(result))
}

func (h *SessionHandler) respondDomainError(c *gin.Context, userID, message string, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "not_found", "no session exists for this user")
	case errors.Is(err, domain.ErrSessionInactive),
		errors.Is(err, domain.ErrEventOutOfOrder),
		errors.Is(err, domain.ErrInvalidPillCount):
		respondError(c, http.StatusConflict, "invalid_state", err.Error())
	default:
		slog.ErrorContext(ctx, message,
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", message)
	}
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
