package obs

import (
	"context"
	"time"

	"charging-route-service/internal/platform/logger"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores a request id for downstream timing and logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time measures an operation. Call the returned func with a pointer to the
// operation's named error, usually via defer.
func Time(ctx context.Context, log logger.Logger, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)
		opDuration.WithLabelValues(name).Observe(dur.Seconds())

		if errp != nil && *errp != nil {
			log.Debugw("op failed", map[string]any{"req_id": reqID, "op": name, "dur_ms": dur.Milliseconds(), "err": (*errp).Error()})
			return
		}
		log.Debugw("op done", map[string]any{"req_id": reqID, "op": name, "dur_ms": dur.Milliseconds()})
	}
}
