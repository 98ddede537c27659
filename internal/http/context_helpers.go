package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return domainauth.NewContext(ctx, *session)
}

// SessionFromRequest returns the session attached by RequireSession.
func SessionFromRequest(r *http.Request) (domainauth.Session, bool) {
	s, ok := domainauth.FromContext(r.Context())
	if !ok || s.UserID == "" {
		return domainauth.Session{}, false
	}
	return s, true
}

type clientIDKey struct{}

func setClientIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientID returns the browser's client ID, which keys its toast slot.
func ClientID(r *http.Request) string {
	if id, ok := r.Context().Value(clientIDKey{}).(string); ok {
		return id
	}
	if c, err := r.Cookie(clientCookieName); err == nil {
		return c.Value
	}
	return ""
}
