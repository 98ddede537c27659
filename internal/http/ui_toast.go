package httpx

import (
	"net/http"
	"time"
)

// Toast renders the browser's current notification, or an empty slot.
// GET /toast.
func (h *UIHandlers) Toast(w http.ResponseWriter, r *http.Request) {
	h.renderToast(w, r)
}

// DismissToast clears the browser's notification.
// POST /toast/dismiss.
func (h *UIHandlers) DismissToast(w http.ResponseWriter, r *http.Request) {
	if h.Toasts != nil {
		h.Toasts.Dismiss(ClientID(r))
	}
	h.renderToast(w, r)
}

const toastRepollSlack = 50 * time.Millisecond

func (h *UIHandlers) renderToast(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Present": false}
	if h.Toasts != nil {
		if t, ok := h.Toasts.Current(ClientID(r)); ok {
			// Re-poll just after expiry so the slot empties itself.
			remaining := time.Until(t.ExpiresAt) + toastRepollSlack
			if remaining < 0 {
				remaining = 0
			}
			data["Present"] = true
			data["Toast"] = t
			data["RemainingMs"] = remaining.Milliseconds()
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	if err := h.T.Render(w, "toast", data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}
