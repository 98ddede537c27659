package httpx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/navix1456/recruiter-platform/internal/adapters/urlsign"
	"github.com/navix1456/recruiter-platform/internal/data"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

// ObjectVerifier checks signed object links.
type ObjectVerifier interface {
	VerifyObject(bucket, key, exp, sig string) error
}

// ObjectReader loads stored objects.
type ObjectReader interface {
	Get(ctx context.Context, bucket, key string) (*data.Object, error)
}

// ObjectHandlers serves signed résumé downloads for the self-hosted backend.
type ObjectHandlers struct {
	Verifier ObjectVerifier
	Objects  ObjectReader
	Logger   *slog.Logger
}

func (h *ObjectHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Download streams an object when its link signature is valid and unexpired.
// GET /objects/{bucket}/{key...}?exp=&sig=.
func (h *ObjectHandlers) Download(w http.ResponseWriter, r *http.Request) {
	bucket, key := r.PathValue("bucket"), r.PathValue("key")
	q := r.URL.Query()

	if err := h.Verifier.VerifyObject(bucket, key, q.Get("exp"), q.Get("sig")); err != nil {
		code := http.StatusForbidden
		errCode := "invalid_signature"
		if errors.Is(err, urlsign.ErrExpired) {
			code = http.StatusGone
			errCode = "link_expired"
		}
		WriteError(w, ErrorParams{Code: code, ErrCode: errCode, Err: err})
		return
	}

	obj, err := h.Objects.Get(r.Context(), bucket, key)
	if err != nil {
		if errors.Is(err, ports.ErrObjectNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("object not found")})
			return
		}
		h.logger().ErrorContext(r.Context(), "object read failed", "bucket", bucket, "key", key, "error", err)
		writeHTTPError(w, err)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+sanitizeHeaderFilename(path.Base(obj.Key))+`"`)
	w.Header().Set("Cache-Control", "private, no-store")
	http.ServeContent(w, r, "", obj.CreatedAt, bytes.NewReader(obj.Body))
}

// sanitizeHeaderFilename drops characters that would break a quoted header value.
func sanitizeHeaderFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, c := range name {
		if c == '"' || c == '\\' || c < 0x20 || c == 0x7f {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
