package auth

// Package auth contains domain-level types for recruiter identity and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Provider records how a session was established.
type Provider string

const (
	// ProviderPassword marks sessions created from email + password sign-in.
	ProviderPassword Provider = "password"
	// ProviderSSO marks sessions created through the OIDC single sign-on flow.
	ProviderSSO Provider = "sso"
)

// User is the identity backend's view of a recruiter.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity represents the authenticated principal returned by an SSO IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable subject identifier
	Email     string
	Name      string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Credentials is an email + password pair submitted from the login or register form.
type Credentials struct {
	Email    string
	Password string
}

// Session is the server-side record we persist for an authenticated recruiter.
// ID is an opaque session identifier stored in the browser cookie; the access
// and refresh tokens never leave the server.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Provider     Provider  `json:"provider"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// User returns the identity the session belongs to.
func (s Session) User() User {
	return User{ID: s.UserID, Email: s.Email}
}

// SignUpResult reports the outcome of registering a new recruiter.
// Backends that require email confirmation return no session.
type SignUpResult struct {
	User                 User
	Session              *Session
	ConfirmationRequired bool
}
