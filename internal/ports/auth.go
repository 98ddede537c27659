package ports

// Package ports defines interfaces (hexagonal ports) for the remote service
// boundary. Implementations live in internal/adapters and internal/data;
// orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
)

// ErrNoSession is returned when no valid session exists for a request.
var ErrNoSession = errors.New("no active session")

// Identity is the remote identity capability: password sign-in, sign-up,
// sign-out, and validation of a held access token.
type Identity interface {
	SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error)
	SignUp(ctx context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error)
	SignOut(ctx context.Context, sess domainauth.Session) error
	// CurrentUser resolves the user owning accessToken. It returns
	// ErrNoSession when the token is no longer valid.
	CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error)
}

// SSOLinker maps an SSO identity onto a backend user, creating one if needed,
// and returns a session usable against the backend.
type SSOLinker interface {
	LinkIdentity(ctx context.Context, id domainauth.Identity) (domainauth.Session, error)
}

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an SSO flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves server-side sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
