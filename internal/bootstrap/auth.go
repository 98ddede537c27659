package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/adapters/oidc"
	redisadapter "github.com/navix1456/recruiter-platform/internal/adapters/redis"
	"github.com/navix1456/recruiter-platform/internal/observability/metrics"
	"github.com/navix1456/recruiter-platform/internal/observability/statsd"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"github.com/navix1456/recruiter-platform/internal/service"
)

// SessionKeyPrefix namespaces recruiter sessions in Redis.
const SessionKeyPrefix = "session:"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth    config.AuthConfig
	Backend *Backend
	Deps    AuthDeps
}

// AuthDeps carries the shared infrastructure the auth service uses.
type AuthDeps struct {
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service over the backend's identity and
// Redis-backed sessions. SSO is enabled only when OAuth is fully configured
// and the backend can link identities.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := redisadapter.NewSessionStoreWithPrefix(cfg.Deps.RedisClient, SessionKeyPrefix)

	svc := service.NewAuthService(service.AuthServiceOptions{
		Identity: cfg.Backend.Identity,
		Sessions: sessions,
		Config: service.AuthServiceConfig{
			SSO:        buildSSO(cfg, logger),
			Metrics:    cfg.Deps.Metrics,
			Logger:     logger,
			SessionTTL: cfg.Auth.SessionTTL,
		},
	})
	subscribeSessionMetrics(svc.Cell(), cfg.Deps.Metrics)
	return svc
}

func buildSSO(cfg AuthConfig, logger *slog.Logger) service.SSOOptions {
	oauth := cfg.Auth.OAuth
	if !oauth.Enabled() {
		return service.SSOOptions{}
	}
	if cfg.Backend.Linker == nil {
		logger.Warn("OAuth configured but the backend cannot link SSO identities; SSO disabled",
			"backend", cfg.Backend.Name)
		return service.SSOOptions{}
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		return service.SSOOptions{}
	}
	return service.SSOOptions{Provider: prov, Linker: cfg.Backend.Linker}
}

// subscribeSessionMetrics counts sign-ins and sign-outs observed by the cell.
func subscribeSessionMetrics(cell *service.SessionCell, sink statsd.Sink) {
	if cell == nil || sink == nil {
		return
	}
	cell.Subscribe(func(_ context.Context, change service.SessionChange) {
		signedIn := change.Reason == service.SessionSignedIn && change.Session != nil
		provider := ""
		if change.Session != nil {
			provider = string(change.Session.Provider)
		}
		metrics.EmitSessionChange(sink, signedIn, provider)
	})
}

// NewSubmissionLocker returns the Redis lock used to reject concurrent
// submissions for the same job and candidate.
//
//nolint:ireturn // callers only need the port
func NewSubmissionLocker(client redis.UniversalClient) ports.Locker {
	return redisadapter.NewLocker(client, "submission:")
}
