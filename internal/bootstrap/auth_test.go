package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navix1456/recruiter-platform/config"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	authmocks "github.com/navix1456/recruiter-platform/internal/mocks/auth"
	"github.com/navix1456/recruiter-platform/internal/service"
)

type countedMetric struct {
	name string
	tags map[string]string
}

type recordingSink struct {
	counts []countedMetric
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.counts = append(r.counts, countedMetric{name: name, tags: tags})
}

func (r *recordingSink) Timing(string, time.Duration, map[string]string) {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func offlineRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBuildSSO(t *testing.T) {
	enabled := config.OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		DiscoveryURL: "https://issuer.example.com",
		RedirectURL:  "https://jobs.example.com/auth/sso/callback",
		Scope:        "openid email",
	}

	tests := []struct {
		name    string
		oauth   config.OAuthConfig
		backend *Backend
	}{
		{
			name:    "oauth not configured",
			oauth:   config.OAuthConfig{},
			backend: &Backend{Name: "postgres", Linker: authmocks.NewMockIdentity()},
		},
		{
			name:    "backend cannot link identities",
			oauth:   enabled,
			backend: &Backend{Name: "supabase"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sso := buildSSO(AuthConfig{
				Auth:    config.AuthConfig{OAuth: tt.oauth},
				Backend: tt.backend,
			}, discardLogger())
			assert.Nil(t, sso.Provider)
			assert.Nil(t, sso.Linker)
		})
	}
}

func TestBuildAuthService(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth:    config.AuthConfig{SessionTTL: time.Hour},
		Backend: &Backend{Name: "supabase", Identity: authmocks.NewMockIdentity()},
		Deps: AuthDeps{
			RedisClient: offlineRedis(t),
			Logger:      discardLogger(),
		},
	})
	require.NotNil(t, svc)
	assert.False(t, svc.SSOEnabled())
}

func TestSubscribeSessionMetrics(t *testing.T) {
	sink := &recordingSink{}
	cell := service.NewSessionCell()
	subscribeSessionMetrics(cell, sink)

	ctx := context.Background()
	cell.Set(ctx, service.SessionChange{
		SessionID: "s1",
		Session:   &domainauth.Session{ID: "s1", Provider: domainauth.ProviderSSO},
		Reason:    service.SessionSignedIn,
	})
	cell.Set(ctx, service.SessionChange{SessionID: "s1", Reason: service.SessionSignedOut})

	require.Len(t, sink.counts, 2)
	assert.Equal(t, "session.change", sink.counts[0].name)
	assert.Equal(t, map[string]string{"event": "signed_in", "provider": string(domainauth.ProviderSSO)}, sink.counts[0].tags)
	assert.Equal(t, map[string]string{"event": "signed_out"}, sink.counts[1].tags)
}

func TestSubscribeSessionMetricsNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		subscribeSessionMetrics(nil, &recordingSink{})
		subscribeSessionMetrics(service.NewSessionCell(), nil)
	})
}
