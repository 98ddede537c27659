package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/adapters/localauth"
	"github.com/navix1456/recruiter-platform/internal/adapters/supabase"
	"github.com/navix1456/recruiter-platform/internal/adapters/urlsign"
	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/data"
	httpx "github.com/navix1456/recruiter-platform/internal/http"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

// devSigningSecret signs download links and tokens in dev mode when no
// secret is configured. ValidateConfig refuses it outside dev mode.
const devSigningSecret = "recruiter-dev-signing-secret"

// Backend bundles the remote service implementations selected by BACKEND.
type Backend struct {
	Name         string
	Identity     ports.Identity
	Jobs         core.JobRepository
	Applications core.ApplicationRepository
	Objects      ports.ObjectStore

	// Linker links SSO identities to accounts; nil when the backend cannot.
	Linker ports.SSOLinker
	// Downloads serves signed object links; nil when storage is remote.
	Downloads *httpx.ObjectHandlers
}

// BackendDeps groups what BuildBackend needs.
type BackendDeps struct {
	Config *config.AppConfig
	DB     *sql.DB // Required for the postgres backend
	Logger *slog.Logger
}

// BuildBackend wires the configured backend.
func BuildBackend(deps BackendDeps) (*Backend, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch deps.Config.Backend {
	case config.BackendSupabase:
		return buildSupabaseBackend(deps.Config, logger)
	case config.BackendPostgres:
		return buildPostgresBackend(deps.Config, deps.DB, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q", deps.Config.Backend)
	}
}

func buildSupabaseBackend(cfg *config.AppConfig, logger *slog.Logger) (*Backend, error) {
	client, err := supabase.NewClient(supabase.Config{
		URL:     cfg.Supabase.URL,
		Key:     cfg.Supabase.Key,
		Timeout: cfg.Supabase.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	logger.Info("using supabase backend", "url", cfg.Supabase.URL)
	return &Backend{
		Name:         string(config.BackendSupabase),
		Identity:     supabase.NewIdentity(client),
		Jobs:         supabase.NewJobRepo(client),
		Applications: supabase.NewApplicationRepo(client),
		Objects:      supabase.NewStorage(client),
	}, nil
}

func buildPostgresBackend(cfg *config.AppConfig, db *sql.DB, logger *slog.Logger) (*Backend, error) {
	if db == nil {
		return nil, errors.New("postgres backend requires a database connection")
	}

	signer, err := NewSigner(cfg, logger)
	if err != nil {
		return nil, err
	}

	identity, err := localauth.New(localauth.Options{
		Recruiters: data.NewRecruiterRepo(db),
		Signer:     signer,
		TokenTTL:   cfg.Auth.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create local identity: %w", err)
	}

	objects := data.NewObjectRepo(db, data.ObjectRepoOptions{
		Signer:   signer,
		BaseURL:  cfg.HTTP.BaseURL,
		MaxBytes: cfg.HTTP.MaxUploadBytes,
	})

	logger.Info("using postgres backend", "db_host", cfg.Postgres.Host, "db_name", cfg.Postgres.Name)
	return &Backend{
		Name:         string(config.BackendPostgres),
		Identity:     identity,
		Jobs:         data.NewJobRepo(db, data.RealTimeProvider{}),
		Applications: data.NewApplicationRepo(db, data.RealTimeProvider{}),
		Objects:      objects,
		Linker:       identity,
		Downloads: &httpx.ObjectHandlers{
			Verifier: signer,
			Objects:  objects,
			Logger:   logger,
		},
	}, nil
}

// NewSigner builds the HMAC signer for download links and local access tokens.
func NewSigner(cfg *config.AppConfig, logger *slog.Logger) (*urlsign.Signer, error) {
	secret := cfg.Storage.SigningSecret
	if secret == "" && cfg.IsDev {
		if logger != nil {
			logger.Warn("STORAGE_SIGNING_SECRET not set; using the development secret")
		}
		secret = devSigningSecret
	}
	signer, err := urlsign.New([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("create url signer: %w", err)
	}
	return signer, nil
}
