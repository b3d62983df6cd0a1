package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TraceIDHeader carries a caller supplied trace id over http.
const TraceIDHeader = "X-Request-ID"

// InjectTraceID attaches a logger carrying a fresh traceId to ctx.
func InjectTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.New().String())
}

// WithTraceID attaches a logger carrying id as traceId to ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	logger := log.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}
