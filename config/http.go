package config

import "time"

const defaultMaxUploadBytes = 10 << 20

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://jobs.example.com").
	// Used for share links and signed download URLs.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CompressionEnabled enables gzip compression for text-based responses.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`

	// MaxUploadBytes limits the size of multipart application submissions.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// ResumeAnalyzerURL is the external résumé checker linked from the apply
	// form. Empty hides the link.
	ResumeAnalyzerURL string `env:"APP_RESUME_ANALYZER_URL" envDefault:"https://resume-enhancer-phi.vercel.app/upload"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = defaultMaxUploadBytes
	}
}

// ToastConfig controls the transient notification slot.
type ToastConfig struct {
	TTL time.Duration `env:"TOAST_TTL" envDefault:"3s"`
}

// Sanitize restores the default TTL when unset or negative.
func (t *ToastConfig) Sanitize() {
	if t.TTL <= 0 {
		t.TTL = 3 * time.Second
	}
}
