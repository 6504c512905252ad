package logging

import (
	"context"
	"log/slog"
	"os"
)

// Environment selects the log output format.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ServiceInfo is attached to every log record.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request ID on the context for downstream log
// records and outgoing requests.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

type serviceHandler struct {
	slog.Handler
	projectID string
}

func (h *serviceHandler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	for _, attr := range gcpTraceAttrs(ctx, h.projectID) {
		record.AddAttrs(attr)
	}
	return h.Handler.Handle(ctx, record)
}

// NewLogger builds the process logger: text output for dev, JSON for
// everything else, with service identity attached.
func NewLogger(env Environment, info ServiceInfo, level slog.Level, projectID string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if env == EnvDev {
		inner = slog.NewTextHandler(os.Stdout, opts)
	} else {
		inner = slog.NewJSONHandler(os.Stdout, opts)
	}

	handler := &serviceHandler{Handler: inner, projectID: projectID}

	logger := slog.New(handler).With(
		slog.String("service", info.Name),
		slog.String("version", info.Version),
	)
	if info.Revision != "" {
		logger = logger.With(slog.String("revision", info.Revision))
	}
	return logger
}
