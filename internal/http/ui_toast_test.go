package httpx

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
)

func TestToast(t *testing.T) {
	t.Run("empty slot", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.get("/toast")

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "toast-message")
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("shows current notification", func(t *testing.T) {
		env := newTestEnv(t)
		env.toasts.Publish(testClientID, "Job posted successfully!", model.SeveritySuccess, time.Minute)

		w := env.get("/toast")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Job posted successfully!")
		assert.Contains(t, w.Body.String(), "load delay:")
	})

	t.Run("newer notification replaces older", func(t *testing.T) {
		env := newTestEnv(t)
		env.toasts.Publish(testClientID, "first", model.SeverityInfo, time.Minute)
		env.toasts.Publish(testClientID, "second", model.SeverityError, time.Minute)

		body := env.get("/toast").Body.String()

		assert.Contains(t, body, "second")
		assert.NotContains(t, body, "first")
	})

	t.Run("slots are per browser", func(t *testing.T) {
		env := newTestEnv(t)
		env.toasts.Publish("ffffffffffffffffffffffffffffffff", "someone else", model.SeverityInfo, time.Minute)

		assert.NotContains(t, env.get("/toast").Body.String(), "someone else")
	})

	t.Run("dismiss clears the slot", func(t *testing.T) {
		env := newTestEnv(t)
		env.toasts.Publish(testClientID, "bye", model.SeverityInfo, time.Minute)

		w := env.post("/toast/dismiss", url.Values{})

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "bye")
		assert.Empty(t, env.toast())
	})
}
