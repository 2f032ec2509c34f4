package middleware

import "context"

type ctxKey int

const userSinkKey ctxKey = 1

func withUserSink(ctx context.Context, sink *string) context.Context {
	return context.WithValue(ctx, userSinkKey, sink)
}
