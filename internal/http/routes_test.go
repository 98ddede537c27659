package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
)

func TestRouter_ProtectedRoutesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/dashboard", "/my-jobs", "/post-job", "/jobs/job-1", "/applicants/job-1"} {
		t.Run(path, func(t *testing.T) {
			w := env.get(path)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login?next="+url.QueryEscape(path), w.Header().Get("Location"))
		})
	}
}

func TestRouter_ProtectedRouteHTMXGetsHXRedirect(t *testing.T) {
	env := newTestEnv(t)

	r := htmx(httptest.NewRequest(http.MethodGet, "/my-jobs", nil))
	w := env.do(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login?next=%2Fmy-jobs", w.Header().Get("Hx-Redirect"))
}

func TestRouter_GuardRevalidatesEveryRequest(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.signIn()
	env.jobs.EXPECT().ListByRecruiter(gomock.Any(), "user-1").Return(nil, nil).Times(2)

	before := env.identity.CurrentUserCalls
	for range 2 {
		w := env.get("/dashboard", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), testEmail)
	}
	assert.Equal(t, before+2, env.identity.CurrentUserCalls)
}

func TestRouter_GuardFailsClosed(t *testing.T) {
	t.Run("identity backend error", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		env.identity.CurrentUserErr = errors.New("identity backend unreachable")

		w := env.get("/dashboard", cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/login")
	})

	t.Run("revoked token", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		env.identity.RevokeAll()

		w := env.get("/dashboard", cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 0, env.sessions.Len())
	})

	t.Run("unknown session cookie", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.get("/dashboard", &http.Cookie{Name: sessionCookieName, Value: "forged"})

		assert.Equal(t, http.StatusSeeOther, w.Code)
	})
}

func TestRouter_RootAndUnknownPaths(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = env.get("/no/such/page")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRouter_Healthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouter_SetsClientIDCookieForNewBrowsers(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	c := responseCookie(w, clientCookieName)
	require.NotNil(t, c)
	assert.True(t, validClientID(c.Value))
	assert.NotNil(t, responseCookie(w, DefaultCSRFCookieName))
}

func TestRouter_RejectsPostWithoutCSRFToken(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {testEmail}, "password": {testPassword}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin(t *testing.T) {
	t.Run("success sets cookie and toast", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.AddUser(testEmail, testPassword)

		w := env.post("/login", url.Values{"email": {testEmail}, "password": {testPassword}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, dashboardPath, w.Header().Get("Location"))
		c := responseCookie(w, sessionCookieName)
		require.NotNil(t, c)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "Signed in successfully.", env.toast())
	})

	t.Run("honours safe next path", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.AddUser(testEmail, testPassword)

		w := env.post("/login", url.Values{"email": {testEmail}, "password": {testPassword}, "next": {"/my-jobs"}})
		assert.Equal(t, "/my-jobs", w.Header().Get("Location"))

		w = env.post("/login", url.Values{"email": {testEmail}, "password": {testPassword}, "next": {"//evil.example.com"}})
		assert.Equal(t, dashboardPath, w.Header().Get("Location"))
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.AddUser(testEmail, testPassword)

		w := env.post("/login", url.Values{"email": {testEmail}, "password": {"nope"}})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid login credentials")
		assert.Nil(t, responseCookie(w, sessionCookieName))
		assert.Contains(t, env.toast(), "Invalid login credentials")
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.post("/login", url.Values{"email": {""}, "password": {""}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Email is required.")
		assert.Contains(t, w.Body.String(), "Password is required.")
	})

	t.Run("signed-in user skips the form", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()

		w := env.get("/login", cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, dashboardPath, w.Header().Get("Location"))
	})
}

func TestRegister(t *testing.T) {
	t.Run("short password", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.post("/register", url.Values{"email": {testEmail}, "password": {"12345"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Password must be at least 6 characters.")
	})

	t.Run("immediate session", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.post("/register", url.Values{"email": {testEmail}, "password": {testPassword}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, dashboardPath, w.Header().Get("Location"))
		assert.NotNil(t, responseCookie(w, sessionCookieName))
		assert.Equal(t, "Account created.", env.toast())
	})

	t.Run("confirmation required", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.RequireConfirmation = true

		w := env.post("/register", url.Values{"email": {testEmail}, "password": {testPassword}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, loginPath, w.Header().Get("Location"))
		assert.Nil(t, responseCookie(w, sessionCookieName))
		assert.Contains(t, env.toast(), "Check your email")
	})

	t.Run("already registered", func(t *testing.T) {
		env := newTestEnv(t)
		env.identity.AddUser(testEmail, testPassword)

		w := env.post("/register", url.Values{"email": {testEmail}, "password": {testPassword}})

		assert.Contains(t, w.Body.String(), "User already registered")
		assert.Nil(t, responseCookie(w, sessionCookieName))
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.signIn()
	require.Equal(t, 1, env.sessions.Len())

	w := env.post("/logout", url.Values{}, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, loginPath, w.Header().Get("Location"))
	c := responseCookie(w, sessionCookieName)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Equal(t, 0, env.sessions.Len())
	assert.Equal(t, 1, env.identity.SignOutCalls)

	toast, ok := env.toasts.Current(testClientID)
	require.True(t, ok)
	assert.Equal(t, model.SeverityInfo, toast.Severity)
}

func TestAuthStatus(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.signIn()

	w := env.get("/auth/status", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testEmail)

	w = env.get("/auth/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), testEmail)
}

func TestRouter_HTMXPartialAndBoostedPages(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(htmx(httptest.NewRequest(http.MethodGet, "/login", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "nav:activate")

	r := htmx(httptest.NewRequest(http.MethodGet, "/login", nil))
	r.Header.Set("Hx-Boosted", "true")
	w = env.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
}

func TestRouter_HTMXErrorPagesStillSwap(t *testing.T) {
	env := newTestEnv(t)
	env.identity.AddUser(testEmail, testPassword)

	form := url.Values{"email": {testEmail}, "password": {"wrong"}, DefaultCSRFCookieName: {testCSRFToken}}
	r := htmx(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode())))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := env.do(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid login credentials")
	assert.Contains(t, w.Header().Get("Hx-Trigger"), "toast")
}
