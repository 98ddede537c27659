package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie and form field.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header HTMX sends the token in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the length of the CSRF token in bytes.
	DefaultCSRFTokenLength = 32

	csrfCookieMaxAge = 12 * 3600
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
}

func (cfg *CSRFConfig) applyDefaults() {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultCSRFCookieName
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = DefaultCSRFTokenLength
	}
}

// CSRFProtection implements the double-submit cookie pattern. Every request
// gets a token cookie; POST, PUT, PATCH and DELETE must echo it back through
// the X-Csrf-Token header or the csrf_token form field.
func CSRFProtection(cfg CSRFConfig) Middleware {
	cfg.applyDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				var err error
				token, err = generateCSRFToken(cfg.TokenLength)
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false, // read by htmx to fill the header
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieMaxAge,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if requiresCSRFValidation(r.Method) && !validateCSRFToken(r, token, cfg) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed: no predictable fallback token.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func validateCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}
	if headerToken := r.Header.Get(cfg.HeaderName); headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	var formToken string
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return false
		}
		formToken = r.PostFormValue(cfg.FormFieldName)
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return false
		}
		formToken = r.PostFormValue(cfg.FormFieldName)
	}
	return formToken != "" && subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token templates embed in forms and hx-headers.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}
