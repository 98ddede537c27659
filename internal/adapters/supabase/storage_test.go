package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)

		switch r.URL.EscapedPath() {
		case "/storage/v1/object/resumes/job-1/cv.pdf":
			assert.Equal(t, "%PDF", string(body))
			_, _ = w.Write([]byte(`{"Key":"resumes/job-1/cv.pdf"}`))
		case "/storage/v1/object/resumes/job-1/taken.pdf":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
		case "/storage/v1/object/resumes/job-1/conflict.pdf":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Duplicate"}`))
		case "/storage/v1/object/resumes/job-1/my%20cv.pdf":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"statusCode":"500","message":"storage is down"}`))
		}
	})
	s := NewStorage(c)

	upload := func(key string) (string, error) {
		return s.Upload(context.Background(), ports.UploadInput{
			Bucket:      "resumes",
			Key:         key,
			ContentType: "application/pdf",
			Body:        strings.NewReader("%PDF"),
			Size:        4,
		})
	}

	key, err := upload("job-1/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "job-1/cv.pdf", key)

	_, err = upload("job-1/taken.pdf")
	require.ErrorIs(t, err, ports.ErrObjectExists)

	_, err = upload("job-1/conflict.pdf")
	require.ErrorIs(t, err, ports.ErrObjectExists)

	_, err = upload("job-1/my cv.pdf")
	require.NoError(t, err)

	_, err = upload("job-1/other.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrObjectExists)
	assert.Equal(t, "storage is down", apperrors.UserMessage(err))
}

func TestStorage_Remove(t *testing.T) {
	var got map[string][]string
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/resumes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[]`))
	})
	s := NewStorage(c)

	require.NoError(t, s.Remove(context.Background(), "resumes", []string{"job-1/a.pdf", "job-1/b.pdf"}))
	assert.Equal(t, []string{"job-1/a.pdf", "job-1/b.pdf"}, got["prefixes"])

	require.NoError(t, s.Remove(context.Background(), "resumes", nil))
	assert.Equal(t, 1, calls)
}

func TestStorage_SignedURL(t *testing.T) {
	var expires int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/sign/resumes/job-1/cv.pdf", r.URL.Path)
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		expires = body["expiresIn"]
		_, _ = w.Write([]byte(`{"signedURL":"/object/sign/resumes/job-1/cv.pdf?token=abc"}`))
	})
	s := NewStorage(c)

	u, err := s.SignedURL(context.Background(), "resumes", "job-1/cv.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3600, expires)
	assert.Equal(t, c.BaseURL()+"/storage/v1/object/sign/resumes/job-1/cv.pdf?token=abc", u)

	_, err = s.SignedURL(context.Background(), "resumes", "job-1/cv.pdf", 0)
	require.Error(t, err)
}

func TestStorage_SignedURL_Missing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"404","error":"not_found","message":"Object not found"}`))
	})
	_, err := NewStorage(c).SignedURL(context.Background(), "resumes", "nope.pdf", time.Minute)
	require.ErrorIs(t, err, ports.ErrObjectNotFound)
}
