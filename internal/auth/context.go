// internal/auth/context.go
package auth

import "context"

type ctxKeyUserID struct{}

// WithUserID records the gate-verified user id on the context.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, id)
}

// UserIDFromContext returns the user id injected by the request gate, if the
// gate authenticated this request.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyUserID{}).(int64)
	return id, ok
}
