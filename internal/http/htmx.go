package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsBoosted reports whether the request was initiated by hx-boost.
func IsBoosted(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Boosted"), "true")
}

// WantsPartial returns true when the handler should return only the content
// fragment. Boosted navigations still expect a full document.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r)
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXPushURL pushes the given URL into the browser history for the new content.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Push-Url", url) }

// SetHXTrigger triggers a client-side event after the swap. The header is a
// JSON object merged with any events already set on w.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}
	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{existing: true}
		}
	}
	events[event] = value
	b, err := json.Marshal(events)
	if err != nil {
		w.Header().Set("Hx-Trigger", `{"`+event+`":true}`)
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// redirect navigates the browser: HX-Redirect for htmx requests, a 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
