package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/observability/metrics"
	"github.com/navix1456/recruiter-platform/internal/observability/statsd"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

var (
	// ErrSessionExpired is returned by the guard for a session past its expiry.
	ErrSessionExpired = fmt.Errorf("%w: session expired", ports.ErrNoSession)
	// ErrSSODisabled is returned by the SSO flow when no provider is configured.
	ErrSSODisabled = errors.New("single sign-on is not configured")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Identity ports.Identity     // Required: remote identity capability
	Sessions ports.SessionStore // Required: server-side session persistence
	Config   AuthServiceConfig
}

// AuthServiceConfig holds optional collaborators and tuning for AuthService.
type AuthServiceConfig struct {
	SSO     SSOOptions
	Cell    *SessionCell  // Optional: created when nil
	Metrics statsd.Sink   // Optional: guard denial counters
	Logger  *slog.Logger  // Optional
	// SessionTTL caps how long a stored session lives regardless of token expiry.
	SessionTTL time.Duration
	Now        func() time.Time
}

// SSOOptions enables the single sign-on flow when both fields are set.
type SSOOptions struct {
	Provider ports.AuthProvider
	Linker   ports.SSOLinker
}

// AuthService orchestrates sign-in, sign-up, sign-out and the session guard.
// It is the only writer of the session cell.
type AuthService struct {
	identity   ports.Identity
	sessions   ports.SessionStore
	provider   ports.AuthProvider
	linker     ports.SSOLinker
	cell       *SessionCell
	metrics    statsd.Sink
	logger     *slog.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Identity == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("AuthService requires an Identity")
	}
	if opts.Sessions == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("AuthService requires a SessionStore")
	}

	cfg := opts.Config
	s := &AuthService{
		identity:   opts.Identity,
		sessions:   opts.Sessions,
		provider:   cfg.SSO.Provider,
		linker:     cfg.SSO.Linker,
		cell:       cfg.Cell,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		sessionTTL: cfg.SessionTTL,
		now:        cfg.Now,
	}
	if s.cell == nil {
		s.cell = NewSessionCell()
	}
	if s.metrics == nil {
		s.metrics = statsd.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "auth_service")
	if s.now == nil {
		s.now = time.Now
	}
	s.cell.Subscribe(s.evict)
	return s
}

// Cell exposes the session cell so other components can observe changes.
func (s *AuthService) Cell() *SessionCell {
	return s.cell
}

// SSOEnabled reports whether the single sign-on flow is available.
func (s *AuthService) SSOEnabled() bool {
	return s.provider != nil && s.linker != nil
}

// SignIn authenticates with email and password and persists a new session.
func (s *AuthService) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	sess, err := s.identity.SignIn(ctx, creds)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("sign in: %w", err)
	}
	return s.establish(ctx, sess, domainauth.ProviderPassword)
}

// SignUp registers a recruiter. When the backend issues a session straight
// away it is persisted; otherwise the result reports ConfirmationRequired.
func (s *AuthService) SignUp(ctx context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	res, err := s.identity.SignUp(ctx, creds)
	if err != nil {
		return domainauth.SignUpResult{}, fmt.Errorf("sign up: %w", err)
	}
	if res.Session == nil {
		res.ConfirmationRequired = true
		return res, nil
	}
	sess, err := s.establish(ctx, *res.Session, domainauth.ProviderPassword)
	if err != nil {
		return domainauth.SignUpResult{}, err
	}
	res.Session = &sess
	return res, nil
}

// SignOut revokes the backend session, if any, and drops the stored session.
// A failed remote revoke is logged; the local session is removed regardless.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// Nothing stored means nothing to revoke.
		s.cell.Set(ctx, SessionChange{SessionID: sessionID, Reason: SessionSignedOut})
		return nil
	}
	if err := s.identity.SignOut(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "remote sign out failed", "user_id", sess.UserID, "error", err)
	}
	s.cell.Set(ctx, SessionChange{SessionID: sessionID, Reason: SessionSignedOut})
	return nil
}

// GetSession is the session guard. It loads the stored session and re-queries
// the identity backend on every call. Any failure yields no session.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		metrics.EmitGuardDenied(s.metrics, metrics.DenyNoCookie)
		return nil, ports.ErrNoSession
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		metrics.EmitGuardDenied(s.metrics, metrics.DenyNoSession)
		return nil, fmt.Errorf("%w: %w", ports.ErrNoSession, err)
	}

	if sess.Expired(s.now()) {
		metrics.EmitGuardDenied(s.metrics, metrics.DenyExpired)
		s.cell.Set(ctx, SessionChange{SessionID: sessionID, Reason: SessionExpired})
		return nil, ErrSessionExpired
	}

	user, err := s.identity.CurrentUser(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, ports.ErrNoSession) {
			metrics.EmitGuardDenied(s.metrics, metrics.DenyNoSession)
			s.cell.Set(ctx, SessionChange{SessionID: sessionID, Reason: SessionInvalidated})
			return nil, fmt.Errorf("current user: %w", err)
		}
		metrics.EmitGuardDenied(s.metrics, metrics.DenyIdentityError)
		return nil, fmt.Errorf("current user: %w", err)
	}

	if user.ID != "" && user.ID != sess.UserID {
		metrics.EmitGuardDenied(s.metrics, metrics.DenyNoSession)
		s.cell.Set(ctx, SessionChange{SessionID: sessionID, Reason: SessionInvalidated})
		return nil, fmt.Errorf("%w: user mismatch", ports.ErrNoSession)
	}
	if user.Email != "" {
		sess.Email = user.Email
	}
	return &sess, nil
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO starts the single sign-on flow.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if !s.SSOEnabled() {
		return nil, ErrSSODisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO exchanges the authorization code, links the identity to a
// backend account and persists the resulting session.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteLoginInput) (domainauth.Session, error) {
	if !s.SSOEnabled() {
		return domainauth.Session{}, ErrSSODisabled
	}
	switch {
	case input.Code == "":
		return domainauth.Session{}, errors.New("authorization code is required")
	case input.State == "":
		return domainauth.Session{}, errors.New("state parameter is required")
	case input.Nonce == "":
		return domainauth.Session{}, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	sess, err := s.linker.LinkIdentity(ctx, identity)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("link identity: %w", err)
	}
	return s.establish(ctx, sess, domainauth.ProviderSSO)
}

// establish assigns an opaque session ID, caps the expiry and persists sess.
func (s *AuthService) establish(ctx context.Context, sess domainauth.Session, provider domainauth.Provider) (domainauth.Session, error) {
	sess.ID = generateSessionID()
	if sess.Provider == "" {
		sess.Provider = provider
	}
	if s.sessionTTL > 0 {
		limit := s.now().Add(s.sessionTTL)
		if sess.ExpiresAt.IsZero() || sess.ExpiresAt.After(limit) {
			sess.ExpiresAt = limit
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.cell.Set(ctx, SessionChange{SessionID: sess.ID, Session: &sess, Reason: SessionSignedIn})
	return sess, nil
}

// evict drops the stored session whenever the cell reports it gone.
func (s *AuthService) evict(ctx context.Context, change SessionChange) {
	if change.Session != nil || change.SessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, change.SessionID); err != nil {
		s.logger.WarnContext(ctx, "evict session failed",
			"reason", string(change.Reason),
			"error", err,
		)
	}
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
