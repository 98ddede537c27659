package config

import (
	"fmt"
	"strings"
	"time"
)

// Backend represents the remote service implementation.
type Backend string

const (
	// BackendSupabase delegates identity, rows, and objects to a Supabase project.
	BackendSupabase Backend = "supabase"
	// BackendPostgres keeps everything in a self-hosted PostgreSQL database.
	BackendPostgres Backend = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for Backend.
func (b *Backend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "supabase", "postgres":
		*b = Backend(v)
		return nil
	default:
		return fmt.Errorf("invalid Backend: %q (valid options: supabase, postgres)", v)
	}
}

// SupabaseConfig holds the two values needed to reach a Supabase project.
type SupabaseConfig struct {
	// URL is the project URL, e.g. https://abcd.supabase.co.
	URL string `env:"URL"`
	// Key is the anon (public) API key.
	Key string `env:"KEY"`
	// Timeout bounds each request to the project.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize trims values and applies defaults.
func (s *SupabaseConfig) Sanitize() {
	s.URL = strings.TrimRight(strings.TrimSpace(s.URL), "/")
	s.Key = strings.TrimSpace(s.Key)
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
}

// IsConfigured reports whether both URL and key are present.
func (s *SupabaseConfig) IsConfigured() bool {
	return s.URL != "" && s.Key != ""
}

// StorageConfig controls résumé object storage.
type StorageConfig struct {
	Bucket string `env:"BUCKET" envDefault:"resumes"`
	// SigningSecret keys HMAC signatures for download links served by the
	// Postgres backend. Required outside of dev mode when BACKEND=postgres.
	SigningSecret string `env:"SIGNING_SECRET"`
}

// Sanitize trims values and applies defaults.
func (s *StorageConfig) Sanitize() {
	s.Bucket = strings.TrimSpace(s.Bucket)
	if s.Bucket == "" {
		s.Bucket = "resumes"
	}
	s.SigningSecret = strings.TrimSpace(s.SigningSecret)
}
