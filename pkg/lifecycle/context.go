package lifecycle

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/statewatch/pkg/logger"
)

type workerIDKey struct{}

// ContextWithID returns a copy of ctx carrying the worker id.
func ContextWithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, workerIDKey{}, id)
}

// IDFromContext returns the worker id stored by ContextWithID.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(workerIDKey{}).(uuid.UUID)
	return id, ok
}

// LogExtractor adds worker_id to records logged with a worker context.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := IDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.WorkerID(id.String()), true
	}
}
