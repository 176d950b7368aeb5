package middleware

import "context"

type ContextKey string

const (
	ContextUserID    ContextKey = "user_id"
	ContextRole      ContextKey = "role"
	ContextRequestID ContextKey = "request_id"

	// Этот флаг ставится админам, чтобы пропускать все role-проверки
	ContextSkipGuards ContextKey = "skip_guards"
)

func WithSkipGuards(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextSkipGuards, true)
}

func SkipGuards(ctx context.Context) bool {
	v := ctx.Value(ContextSkipGuards)
	b, _ := v.(bool)
	return b
}
