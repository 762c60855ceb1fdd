package middleware

import "context"

type userKey struct{}

// WithUserID binds the authenticated user id to ctx. Only the auth gate calls it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userKey{}).(string)
	return v, ok && v != ""
}
