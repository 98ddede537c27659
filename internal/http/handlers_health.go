package httpx

import (
	"net/http"
)

// healthHandler answers readiness and liveness probes. It does not touch the
// backend; a dead backend surfaces through the guard and page errors instead.
func healthHandler(backend string) http.HandlerFunc {
	body := map[string]string{"status": "ok"}
	if backend != "" {
		body["backend"] = backend
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, body)
	}
}
