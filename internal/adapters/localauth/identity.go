// Package localauth implements recruiter identity for the self-hosted backend:
// bcrypt password hashes in Postgres and HMAC-signed access tokens.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/navix1456/recruiter-platform/internal/adapters/urlsign"
	"github.com/navix1456/recruiter-platform/internal/core"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 12 * time.Hour
	// MinPasswordLen matches the hosted backend's default password policy.
	MinPasswordLen = 6
)

var (
	_ ports.Identity  = (*Identity)(nil)
	_ ports.SSOLinker = (*Identity)(nil)
)

// Options configures Identity.
type Options struct {
	Recruiters core.RecruiterRepository
	Signer     *urlsign.Signer
	TokenTTL   time.Duration
	BcryptCost int
}

// Identity authenticates recruiters stored in the recruiters table.
type Identity struct {
	repo   core.RecruiterRepository
	signer *urlsign.Signer
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// New creates an Identity.
func New(opts Options) (*Identity, error) {
	if opts.Recruiters == nil {
		return nil, errors.New("recruiter repository is required")
	}
	if opts.Signer == nil {
		return nil, errors.New("token signer is required")
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Identity{repo: opts.Recruiters, signer: opts.Signer, ttl: ttl, cost: cost, now: time.Now}, nil
}

// HashPassword returns the bcrypt hash stored for a recruiter.
func (i *Identity) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", apperrors.ValidationField("password",
			fmt.Sprintf("Password should be at least %d characters.", MinPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (i *Identity) issue(r *core.Recruiter, provider domainauth.Provider) domainauth.Session {
	exp := i.now().Add(i.ttl)
	return domainauth.Session{
		UserID:      r.ID,
		Email:       r.Email,
		Provider:    provider,
		AccessToken: i.signer.Token(r.ID, exp),
		ExpiresAt:   exp,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (i *Identity) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	invalid := apperrors.Unauthorized("Invalid login credentials")

	r, err := i.repo.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Session{}, invalid
		}
		return domainauth.Session{}, err
	}
	if r.PasswordHash == "" {
		return domainauth.Session{}, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(creds.Password)) != nil {
		return domainauth.Session{}, invalid
	}
	return i.issue(r, domainauth.ProviderPassword), nil
}

// SignUp creates the recruiter and signs them in. Local accounts need no
// email confirmation.
func (i *Identity) SignUp(ctx context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error) {
	hash, err := i.HashPassword(creds.Password)
	if err != nil {
		return domainauth.SignUpResult{}, err
	}
	r, err := i.repo.Create(ctx, normalizeEmail(creds.Email), hash)
	if err != nil {
		if apperrors.IsConflict(err) {
			return domainauth.SignUpResult{}, apperrors.Wrap(err, apperrors.ErrCodeConflict, "User already registered")
		}
		return domainauth.SignUpResult{}, err
	}
	sess := i.issue(r, domainauth.ProviderPassword)
	return domainauth.SignUpResult{User: sess.User(), Session: &sess}, nil
}

// SignOut is a no-op: tokens are stateless and the session record is
// removed by the caller.
func (i *Identity) SignOut(context.Context, domainauth.Session) error {
	return nil
}

func (i *Identity) CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	if accessToken == "" {
		return domainauth.User{}, ports.ErrNoSession
	}
	subject, _, err := i.signer.ParseToken(accessToken)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("%w: %w", ports.ErrNoSession, err)
	}
	r, err := i.repo.GetByID(ctx, subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.User{}, fmt.Errorf("%w: recruiter %s no longer exists", ports.ErrNoSession, subject)
		}
		return domainauth.User{}, err
	}
	return domainauth.User{ID: r.ID, Email: r.Email}, nil
}

// LinkIdentity signs in the recruiter matching the SSO email, creating a
// password-less account on first use.
func (i *Identity) LinkIdentity(ctx context.Context, id domainauth.Identity) (domainauth.Session, error) {
	email := normalizeEmail(id.Email)
	if email == "" {
		return domainauth.Session{}, apperrors.Validation("SSO identity has no email address")
	}
	r, err := i.repo.GetByEmail(ctx, email)
	if apperrors.IsNotFound(err) {
		r, err = i.repo.Create(ctx, email, "")
	}
	if err != nil {
		return domainauth.Session{}, err
	}
	sess := i.issue(r, domainauth.ProviderSSO)
	if !id.ExpiresAt.IsZero() && id.ExpiresAt.Before(sess.ExpiresAt) {
		sess.ExpiresAt = id.ExpiresAt
		sess.AccessToken = i.signer.Token(r.ID, id.ExpiresAt)
	}
	return sess, nil
}
