package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID stores id on ctx for Time and handler logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of op when the returned func runs, usually deferred
// with a pointer to the caller's named error result.
func Time(ctx context.Context, log zerolog.Logger, op string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		ev := log.Debug()
		if errp != nil && *errp != nil {
			ev = ev.Err(*errp)
		}
		ev.Str("req_id", reqID).Str("op", op).Int64("dur_ms", time.Since(start).Milliseconds()).Msg("op finished")
	}
}
