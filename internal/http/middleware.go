package httpx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Int64("bytes", ww.bytes),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection records whether the request came from a browser so
// handlers can choose between HTML and JSON error bodies.
func BrowserDetection() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

func isBrowserRequest(r *http.Request) bool {
	switch {
	case strings.HasPrefix(r.URL.Path, "/static/"), r.URL.Path == "/healthz":
		return false
	case IsHTMX(r):
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}

// ClientIDCookie makes sure every browser carries a random client_id cookie,
// which keys its notification slot. It is independent of sign-in state.
func ClientIDCookie(cookieDomain string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(clientCookieName); err == nil && validClientID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = newClientID()
				setCookie(w, r, cookieSpec{
					Name:   clientCookieName,
					Value:  id,
					Domain: cookieDomain,
					MaxAge: int((365 * 24 * time.Hour).Seconds()),
				})
			}
			next.ServeHTTP(w, r.WithContext(setClientIDInContext(r.Context(), id)))
		})
	}
}

func newClientID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b) // crypto/rand.Read never returns an error
	return hex.EncodeToString(b)
}

func validClientID(v string) bool {
	if len(v) != 32 {
		return false
	}
	_, err := hex.DecodeString(v)
	return err == nil
}

// MaxBodyBytes caps request bodies. Multipart résumé uploads are the only
// large bodies this app accepts.
func MaxBodyBytes(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionGuard resolves the session behind a cookie value. Implementations
// must re-validate against the identity backend on every call.
type SessionGuard interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// RequireSession admits a request only when the guard returns a session for
// its session_id cookie. Everything else, including a guard error, is sent
// to the login page.
func RequireSession(guard SessionGuard) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, guard)
			if session == nil {
				redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

func getSessionFromRequest(r *http.Request, guard SessionGuard) *domainauth.Session {
	if guard == nil {
		return nil
	}
	id := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		id = c.Value
	}
	// An empty ID still goes through the guard so the denial is counted.
	session, err := guard.GetSession(r.Context(), id)
	if err != nil {
		return nil
	}
	return session
}

// redirectToLogin sends the browser to /login, remembering where it was going.
// HTMX requests get an HX-Redirect so the whole page navigates.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := loginPath
	if next := redirectPathForRequest(r); next != "/" && next != loginPath {
		target += "?next=" + url.QueryEscape(next)
	}
	if IsHTMX(r) {
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "/" {
			return current
		}
	}
	if r.Method != http.MethodGet {
		return "/"
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
