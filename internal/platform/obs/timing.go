package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func is called.
// Pass a pointer to the named error result so failures are logged too.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		attrs := []any{
			"req_id", RequestID(ctx),
			"op", name,
			"dur_ms", time.Since(start).Milliseconds(),
		}

		if errp != nil && *errp != nil {
			slog.WarnContext(ctx, "op failed", append(attrs, "err", *errp)...)
			return
		}
		slog.DebugContext(ctx, "op done", attrs...)
	}
}
