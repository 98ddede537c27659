package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

const authPrefix = "/auth/v1"

var _ ports.Identity = (*Identity)(nil)

// Identity implements ports.Identity against GoTrue.
type Identity struct {
	c   *Client
	now func() time.Time
}

// NewIdentity creates a new Identity.
func NewIdentity(c *Client) *Identity {
	return &Identity{c: c, now: time.Now}
}

type goTrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// goTrueSession covers both the token grant response and the signup
// response; the latter is a bare user object when confirmation is pending.
type goTrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *goTrueUser `json:"user"`

	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s goTrueSession) user() domainauth.User {
	if s.User != nil {
		return domainauth.User{ID: s.User.ID, Email: s.User.Email}
	}
	return domainauth.User{ID: s.ID, Email: s.Email}
}

func (i *Identity) toSession(gs goTrueSession) domainauth.Session {
	u := gs.user()
	var exp time.Time
	switch {
	case gs.ExpiresAt > 0:
		exp = time.Unix(gs.ExpiresAt, 0)
	case gs.ExpiresIn > 0:
		exp = i.now().Add(time.Duration(gs.ExpiresIn) * time.Second)
	}
	return domainauth.Session{
		UserID:       u.ID,
		Email:        u.Email,
		Provider:     domainauth.ProviderPassword,
		AccessToken:  gs.AccessToken,
		RefreshToken: gs.RefreshToken,
		ExpiresAt:    exp,
	}
}

func credentialsBody(creds domainauth.Credentials) map[string]string {
	return map[string]string{
		"email":    strings.TrimSpace(creds.Email),
		"password": creds.Password,
	}
}

func (i *Identity) SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error) {
	var gs goTrueSession
	err := i.c.do(ctx, request{
		method:   http.MethodPost,
		path:     authPrefix + "/token",
		query:    url.Values{"grant_type": {"password"}},
		jsonBody: credentialsBody(creds),
		token:    i.c.key,
	}, &gs)
	if err != nil {
		return domainauth.Session{}, mapAuthError(err)
	}
	if gs.AccessToken == "" {
		return domainauth.Session{}, apperrors.Remote("Sign-in did not return a session")
	}
	return i.toSession(gs), nil
}

func (i *Identity) SignUp(ctx context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error) {
	var gs goTrueSession
	err := i.c.do(ctx, request{
		method:   http.MethodPost,
		path:     authPrefix + "/signup",
		jsonBody: credentialsBody(creds),
		token:    i.c.key,
	}, &gs)
	if err != nil {
		return domainauth.SignUpResult{}, mapAuthError(err)
	}

	res := domainauth.SignUpResult{User: gs.user()}
	if gs.AccessToken == "" {
		res.ConfirmationRequired = true
		return res, nil
	}
	sess := i.toSession(gs)
	res.Session = &sess
	return res, nil
}

func (i *Identity) SignOut(ctx context.Context, sess domainauth.Session) error {
	if sess.AccessToken == "" {
		return nil
	}
	err := i.c.do(ctx, request{
		method: http.MethodPost,
		path:   authPrefix + "/logout",
		token:  sess.AccessToken,
	}, nil)
	if err != nil && !isSessionGone(err) {
		return mapAuthError(err)
	}
	return nil
}

func (i *Identity) CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	if accessToken == "" {
		return domainauth.User{}, ports.ErrNoSession
	}
	var u goTrueUser
	err := i.c.do(ctx, request{
		method: http.MethodGet,
		path:   authPrefix + "/user",
		token:  accessToken,
	}, &u)
	if err != nil {
		if isSessionGone(err) {
			return domainauth.User{}, fmt.Errorf("%w: %w", ports.ErrNoSession, err)
		}
		return domainauth.User{}, mapAuthError(err)
	}
	if u.ID == "" {
		return domainauth.User{}, ports.ErrNoSession
	}
	return domainauth.User{ID: u.ID, Email: u.Email}, nil
}

func isSessionGone(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized ||
		apiErr.Status == http.StatusForbidden ||
		apiErr.Code == "session_not_found" ||
		apiErr.Code == "bad_jwt"
}

// mapAuthError keeps GoTrue's message so it can be shown to the user as-is.
func mapAuthError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	code := apperrors.ErrCodeRemote
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized:
		code = apperrors.ErrCodeUnauthorized
	case http.StatusUnprocessableEntity:
		code = apperrors.ErrCodeValidation
	}
	return apperrors.Wrap(err, code, apiErr.Message)
}
