package timeline

import (
	"context"
	"time"
)

type ctxKey string

// ctxSinceKey carries a time.Time lower bound for createdAt.
const ctxSinceKey ctxKey = "since"

func WithSince(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxSinceKey, t)
}

func Since(ctx context.Context) (time.Time, bool) {
	v := ctx.Value(ctxSinceKey)
	if v == nil {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}
