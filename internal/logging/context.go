package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldVideoID is the structured logging key for video identifiers.
	FieldVideoID = "video_id"
	// FieldClipID is the structured logging key for clip identifiers.
	FieldClipID = "clip_id"
	// FieldSessionID is the structured logging key for editor session identifiers.
	FieldSessionID = "session_id"
	// FieldRequestID is the structured logging key for API request identifiers.
	FieldRequestID = "request_id"
	// FieldEventType classifies a record for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the reader of a warning.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey string

const (
	videoIDKey   contextKey = "video_id"
	sessionIDKey contextKey = "session_id"
	requestIDKey contextKey = "request_id"
)

// WithVideoID annotates ctx with a video identifier.
func WithVideoID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, videoIDKey, id)
}

// WithSessionID annotates ctx with an editor session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithRequestID annotates ctx with an API request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextFields extracts standardized attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	for _, key := range []contextKey{videoIDKey, sessionIDKey, requestIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, slog.String(string(key), v))
		}
	}
	return fields
}

// WithContext returns a logger augmented with fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
