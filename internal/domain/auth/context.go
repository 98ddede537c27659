package auth

import "context"

type sessionKey struct{}

// NewContext returns a copy of ctx carrying the session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// AccessToken returns the access token of the session stored in ctx,
// or an empty string for anonymous requests.
func AccessToken(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.AccessToken
	}
	return ""
}
