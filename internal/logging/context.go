// Package logging: correlation ID propagation through context.Context, so a
// whole CLI invocation's log lines share one identifier even as work moves
// between packages that don't otherwise share state.

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// GenerateCorrelationID creates a new unique correlation ID: the first 8
// characters of a UUID, readable enough for a CLI run's log lines.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// ContextWithNewCorrelationID returns a context carrying a freshly generated
// correlation ID, meant to be attached once per CLI invocation.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, correlationIDKey, GenerateCorrelationID())
}

// CorrelationIDFromContext retrieves the correlation ID from ctx, or "" if
// none was attached.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// Ctx returns the global logger with ctx's correlation ID (if any) attached
// as a field.
//
//	logging.Ctx(ctx).Info().Msg("scan complete")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logger = logger.With().Str("correlation_id", id).Logger()
	}
	return &logger
}

// CtxErr starts an error-level message with ctx's correlation ID attached
// and err recorded. Shorthand for Ctx(ctx).Error().Err(err).
func CtxErr(ctx context.Context, err error) *zerolog.Event {
	return Ctx(ctx).Error().Err(err)
}
