// Package authctx carries verified token claims through a request context.
//
//	ctx = authctx.Set(ctx, claims)
//	claims, ok := authctx.Get[*jwt.Claims](ctx)
package authctx

import "context"

type contextKey struct{}

var claimsKey = contextKey{}

// Set stores claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves typed claims from the context. It returns false when no
// claims were stored or they have a different type.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey).(T)
	return claims, ok
}

// Subject returns the "sub" of stored claims that expose one, or "".
func Subject(ctx context.Context) string {
	s, ok := Get[interface{ GetSubject() (string, error) }](ctx)
	if !ok {
		return ""
	}
	sub, err := s.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
