package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/navix1456/recruiter-platform/config"
)

// minSigningSecretLen matches the HMAC signer's lower bound.
const minSigningSecretLen = 16

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig checks that the selected backend has what it needs to start.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}

	switch cfg.Backend {
	case config.BackendSupabase:
		if !cfg.Supabase.IsConfigured() {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required when BACKEND=supabase")
		}
	case config.BackendPostgres:
		secret := cfg.Storage.SigningSecret
		if secret == "" && cfg.IsDev {
			return nil
		}
		if len(secret) < minSigningSecretLen {
			return fmt.Errorf("STORAGE_SIGNING_SECRET must be at least %d bytes when BACKEND=postgres", minSigningSecretLen)
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}
