package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

const minPasswordLength = 6

// LoginPage renders the sign-in form. A visitor whose session still passes the
// guard goes straight to the dashboard.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.signedIn(r) {
		redirect(w, r, dashboardPath)
		return
	}
	h.renderAuthForm(w, r, PageLogin, http.StatusOK, authForm{Next: safeRedirectPath(r.URL.Query().Get("next"))}, nil)
}

// RegisterPage renders the sign-up form.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.signedIn(r) {
		redirect(w, r, dashboardPath)
		return
	}
	h.renderAuthForm(w, r, PageRegister, http.StatusOK, authForm{}, nil)
}

// LoginPost signs in with email and password.
func (h *UIHandlers) LoginPost(w http.ResponseWriter, r *http.Request) {
	form := parseAuthForm(r)
	if errs := form.required(); len(errs) > 0 {
		h.renderAuthForm(w, r, PageLogin, http.StatusUnprocessableEntity, form, errs)
		return
	}

	sess, err := h.Auth.SignIn(r.Context(), domainauth.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign in failed", "error", err)
		msg := apperrors.UserMessage(err)
		h.notifyError(w, r, msg)
		form.Password = ""
		h.renderAuthFormError(w, r, PageLogin, http.StatusUnauthorized, form, msg)
		return
	}

	h.setSessionCookie(w, r, sess)
	h.notifySuccess(w, r, "Signed in successfully.")
	target := dashboardPath
	if next := safeRedirectPath(form.Next); next != "/" && next != loginPath {
		target = next
	}
	redirect(w, r, target)
}

// RegisterPost creates a recruiter account.
func (h *UIHandlers) RegisterPost(w http.ResponseWriter, r *http.Request) {
	form := parseAuthForm(r)
	errs := form.required()
	if _, ok := errs["password"]; !ok && len(form.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters."
	}
	if len(errs) > 0 {
		h.renderAuthForm(w, r, PageRegister, http.StatusUnprocessableEntity, form, errs)
		return
	}

	res, err := h.Auth.SignUp(r.Context(), domainauth.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		h.logger().InfoContext(r.Context(), "sign up failed", "error", err)
		form.Password = ""
		if fe := fieldErrorsFor(err); fe != nil && fe["_"] == "" {
			h.renderAuthForm(w, r, PageRegister, http.StatusUnprocessableEntity, form, fe)
			return
		}
		msg := apperrors.UserMessage(err)
		h.notifyError(w, r, msg)
		h.renderAuthFormError(w, r, PageRegister, statusForError(err), form, msg)
		return
	}

	if res.ConfirmationRequired || res.Session == nil {
		h.notifySuccess(w, r, "Check your email to confirm your account, then sign in.")
		redirect(w, r, loginPath)
		return
	}
	h.setSessionCookie(w, r, *res.Session)
	h.notifySuccess(w, r, "Account created.")
	redirect(w, r, dashboardPath)
}

// Logout ends the session and returns to the login page.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		if err := h.Auth.SignOut(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "sign out failed", "error", err)
		}
	}
	clearCookie(w, r, sessionCookieName, h.CookieDomain)
	h.notify(w, r, model.SeverityInfo, "You have been signed out.")
	redirect(w, r, loginPath)
}

type authForm struct {
	Email    string
	Password string
	Next     string
}

func parseAuthForm(r *http.Request) authForm {
	return authForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Next:     r.FormValue("next"),
	}
}

func (f authForm) required() map[string]string {
	errs := map[string]string{}
	if f.Email == "" {
		errs["email"] = "Email is required."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

func (h *UIHandlers) renderAuthForm(w http.ResponseWriter, r *http.Request, page string, status int, form authForm, errs map[string]string) {
	h.renderPageStatus(w, r, status, h.authFormData(r, page, form).WithFieldErrors(errs).Build())
}

func (h *UIHandlers) renderAuthFormError(w http.ResponseWriter, r *http.Request, page string, status int, form authForm, msg string) {
	h.renderPageStatus(w, r, status, h.authFormData(r, page, form).WithError(msg).Build())
}

func (h *UIHandlers) authFormData(r *http.Request, page string, form authForm) *TemplateDataBuilder {
	title := "Sign in"
	if page == PageRegister {
		title = "Create account"
	}
	return NewTemplateData(r, PageMeta{Title: title, CurrentPage: page}).
		With("Form", form).
		With("SSOEnabled", h.Auth.SSOEnabled())
}

// signedIn reports whether the request carries a session the guard accepts.
func (h *UIHandlers) signedIn(r *http.Request) bool {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	sess, err := h.Auth.GetSession(r.Context(), c.Value)
	return err == nil && sess != nil
}

func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sess domainauth.Session) {
	setCookie(w, r, cookieSpec{
		Name:   sessionCookieName,
		Value:  sess.ID,
		Domain: h.CookieDomain,
		MaxAge: sessionCookieMaxAge(sess, time.Now()),
	})
}

// sessionCookieMaxAge follows the session expiry, defaulting to a day.
func sessionCookieMaxAge(sess domainauth.Session, now time.Time) int {
	if sess.ExpiresAt.IsZero() {
		return int((24 * time.Hour).Seconds())
	}
	secs := int(sess.ExpiresAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
