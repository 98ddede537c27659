package httpx

import (
	"net/http"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/service"
)

const (
	ssoCallbackPath     = "/auth/sso/callback"
	oauthCookieLifetime = 600
)

// SSOLogin starts single sign-on.
// GET /auth/sso/login?next=<optional_redirect>.
func (h *UIHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	next := safeRedirectPath(r.URL.Query().Get("next"))
	if next == "/" {
		next = dashboardPath
	}

	result, err := h.Auth.BeginSSO(r.Context(), callbackURL(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "begin sso failed", "error", err)
		h.notifyError(w, r, "Single sign-on is unavailable.")
		redirect(w, r, loginPath)
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: next})
	if IsHTMX(r) {
		SetHXRedirect(w, result.AuthURL)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes single sign-on.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *UIHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	fail := func(msg string, err error) {
		h.logger().WarnContext(r.Context(), "sso callback rejected", "reason", msg, "error", err)
		h.clearOAuthCookies(w, r)
		h.notify(w, r, model.SeverityError, msg)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	}

	if code == "" || state == "" {
		fail("Sign-in was cancelled or is missing its authorization code.", nil)
		return
	}
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value != state {
		fail("Sign-in state did not match. Please try again.", err)
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookieName)
	if err != nil {
		fail("Sign-in state did not match. Please try again.", err)
		return
	}

	sess, err := h.Auth.CompleteSSO(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		fail(apperrors.UserMessage(err), err)
		return
	}

	h.setSessionCookie(w, r, sess)
	h.clearCookie(w, r, oauthStateCookieName)
	h.clearCookie(w, r, oauthNonceCookieName)
	h.notifySuccess(w, r, "Signed in successfully.")
	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusSeeOther)
}

// AuthStatus reports whether the caller's session passes the guard.
// GET /auth/status.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	sess, err := h.Auth.GetSession(r.Context(), c.Value)
	if err != nil || sess == nil {
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    sess.UserID,
			"email": sess.Email,
		},
		"provider":   sess.Provider,
		"expires_at": sess.ExpiresAt,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

func (h *UIHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	for name, value := range map[string]string{
		oauthStateCookieName:    p.State,
		oauthNonceCookieName:    p.Nonce,
		postLoginRedirectCookie: p.RedirectURI,
	} {
		setCookie(w, r, cookieSpec{Name: name, Value: value, Domain: h.CookieDomain, MaxAge: oauthCookieLifetime})
	}
}

func (h *UIHandlers) clearOAuthCookies(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, r, oauthStateCookieName)
	h.clearCookie(w, r, oauthNonceCookieName)
	h.clearCookie(w, r, postLoginRedirectCookie)
}

func (h *UIHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	clearCookie(w, r, name, h.CookieDomain)
}

// postLoginRedirect returns the remembered destination and clears its cookie.
func (h *UIHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	target := dashboardPath
	if c, err := r.Cookie(postLoginRedirectCookie); err == nil {
		if candidate := safeRedirectPath(c.Value); candidate != "/" {
			target = candidate
		}
		h.clearCookie(w, r, postLoginRedirectCookie)
	}
	return target
}

// callbackURL builds the absolute SSO callback URL for the request's host.
func callbackURL(r *http.Request) string {
	scheme := "http"
	if isSecureRequest(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host + ssoCallbackPath
}
