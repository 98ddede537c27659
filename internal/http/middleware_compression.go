package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level  int // gzip level 1-9; 0 selects gzip.DefaultCompression
	Logger *slog.Logger
}

//nolint:gochecknoglobals // read-only lookup table
var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"image/svg+xml":          true,
}

// Compression gzips text responses for clients that accept it. Résumé
// downloads (application/pdf) and other binary bodies pass through untouched.
func Compression(cfg CompressionConfig) Middleware {
	level := cfg.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pool := &sync.Pool{New: func() any {
		w, err := gzip.NewWriterLevel(io.Discard, level)
		if err != nil {
			return gzip.NewWriter(io.Discard)
		}
		return w
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Encoding")
			gzw := &gzipResponseWriter{ResponseWriter: w, pool: pool}
			next.ServeHTTP(gzw, r)
			if gzw.gz != nil {
				if err := gzw.gz.Close(); err != nil {
					logger.ErrorContext(r.Context(), "closing gzip writer failed", "error", err)
				}
				gzw.gz.Reset(io.Discard)
				pool.Put(gzw.gz)
			}
		})
	}
}

// acceptsGzip checks Accept-Encoding for gzip, honouring an explicit q=0.
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "gzip") {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

func isCompressibleContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return compressibleTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

type gzipResponseWriter struct {
	http.ResponseWriter
	pool          *sync.Pool
	gz            *gzip.Writer
	headerWritten bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.headerWritten {
		return
	}
	w.headerWritten = true

	h := w.Header()
	compress := status >= http.StatusOK &&
		status != http.StatusNoContent &&
		status != http.StatusNotModified &&
		h.Get("Content-Encoding") == "" &&
		isCompressibleContentType(h.Get("Content-Type"))
	if compress {
		gz, _ := w.pool.Get().(*gzip.Writer)
		gz.Reset(w.ResponseWriter)
		w.gz = gz
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher.
func (w *gzipResponseWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
