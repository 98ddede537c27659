package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/observability/statsd"
	"github.com/navix1456/recruiter-platform/internal/service"
)

const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Submissions  *service.SubmissionService
	Toasts       *service.Toaster
	Backend      *Backend
	Metrics      statsd.Sink

	closers []func() error
}

// Close releases resources owned by the container.
func (c *ServiceContainer) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Backend     *Backend
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildMetrics returns a DogStatsD client when metrics are enabled and a
// no-op sink otherwise. A client that fails to start degrades to the no-op.
func buildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (statsd.Sink, func() error) {
	if !cfg.IsEnabled() {
		return statsd.Nop{}, nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return statsd.Nop{}, nil
	}
	return client, client.Close
}

// NewServices builds the application services over the selected backend.
func NewServices(deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if deps.RedisClient == nil {
		return nil, errors.New("redis client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	backend := deps.Backend

	sink, closeMetrics := buildMetrics(cfg.Observability.Metrics, logger)

	c := &ServiceContainer{
		Backend: backend,
		Metrics: sink,
	}
	if closeMetrics != nil {
		c.closers = append(c.closers, closeMetrics)
	}

	c.Auth = BuildAuthService(AuthConfig{
		Auth:    cfg.Auth,
		Backend: backend,
		Deps: AuthDeps{
			RedisClient: deps.RedisClient,
			Metrics:     sink,
			Logger:      logger,
		},
	})

	c.Jobs = service.NewJobService(service.JobServiceOptions{
		Jobs:         backend.Jobs,
		Applications: backend.Applications,
		Config: service.JobServiceConfig{
			Objects: backend.Objects,
			Bucket:  cfg.Storage.Bucket,
			BaseURL: cfg.HTTP.BaseURL,
			Logger:  logger,
		},
	})

	c.Applications = service.NewApplicationService(service.ApplicationServiceOptions{
		Jobs:         backend.Jobs,
		Applications: backend.Applications,
		Storage: service.ApplicationStorage{
			Objects: backend.Objects,
			Bucket:  cfg.Storage.Bucket,
			Logger:  logger,
		},
	})

	c.Submissions = service.NewSubmissionService(service.SubmissionServiceOptions{
		Applications: backend.Applications,
		Objects:      backend.Objects,
		Config: service.SubmissionConfig{
			Bucket:  cfg.Storage.Bucket,
			Locker:  NewSubmissionLocker(deps.RedisClient),
			Metrics: sink,
			Logger:  logger,
		},
	})

	c.Toasts = service.NewToaster(service.ToasterOptions{DefaultTTL: cfg.Toast.TTL})

	return c, nil
}

// ServiceOrchestrationConfig contains what RunWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until SIGINT/SIGTERM or a
// server failure, then drains in-flight requests.
func RunWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down services...")
	case runErr = <-errCh:
		logger.Error("service error", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  server,
		Logger:  logger,
	}); err != nil {
		logger.Error("graceful stop failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// isServerClosed reports whether err is the expected result of Shutdown.
func isServerClosed(err error) bool {
	return err == nil || errors.Is(err, http.ErrServerClosed)
}
