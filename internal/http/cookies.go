package httpx

import (
	"net/http"
	"strings"
	"time"
)

// cookieSpec groups the attributes of an HttpOnly, Lax cookie.
type cookieSpec struct {
	Name   string
	Value  string
	Domain string
	// MaxAge in seconds; values <= 0 delete the cookie.
	MaxAge int
}

func setCookie(w http.ResponseWriter, r *http.Request, c cookieSpec) {
	cookie := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   c.MaxAge,
	}
	if c.MaxAge <= 0 {
		cookie.Value = ""
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0).UTC()
	}
	http.SetCookie(w, cookie)
}

func clearCookie(w http.ResponseWriter, r *http.Request, name, domain string) {
	setCookie(w, r, cookieSpec{Name: name, Domain: domain})
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// through a proxy that sets X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// isForwardedHTTPS handles comma-separated X-Forwarded-Proto values.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
