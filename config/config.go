package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: Remote backend selection (Supabase or self-hosted Postgres)
//   - auth.go: Session and single sign-on configuration
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server and upload configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reloading, verbose errors).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend selects which remote service implementation backs identity,
	// relational storage, and object storage.
	Backend Backend `env:"BACKEND" envDefault:"supabase"`

	Supabase SupabaseConfig `envPrefix:"SUPABASE_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Toast configuration
	Toast ToastConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Supabase.Sanitize()
	c.Storage.Sanitize()
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Toast.Sanitize()
	c.Observability.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesPostgres reports whether the self-hosted Postgres backend is selected.
func (c *AppConfig) UsesPostgres() bool {
	return c.Backend == BackendPostgres
}
