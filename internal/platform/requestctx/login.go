package requestctx

import "context"

type loginContextKey struct{}

// WithLogin stores the resolved partition login in context.
func WithLogin(ctx context.Context, login string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loginContextKey{}, login)
}

// LoginFromContext returns the partition login stored in context, or "".
func LoginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(loginContextKey{}).(string)
	return value
}
