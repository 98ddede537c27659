package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/navix1456/recruiter-platform/config"
	httpx "github.com/navix1456/recruiter-platform/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives the ListenAndServe failure, if any.
	ErrCh chan<- error
}

// BuildHandler assembles the router over the service container.
func BuildHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Services == nil {
		return nil, errors.New("http server config requires services")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	svc := cfg.Services
	services := httpx.RouterServices{
		Auth:         svc.Auth,
		Jobs:         svc.Jobs,
		Applications: svc.Applications,
		Submissions:  svc.Submissions,
		Toasts:       svc.Toasts,
		Options: httpx.RouterOptions{
			Backend:           string(appCfg.Backend),
			CookieDomain:      appCfg.HTTP.CookieDomain,
			MaxUploadBytes:    appCfg.HTTP.MaxUploadBytes,
			ResumeAnalyzerURL: appCfg.HTTP.ResumeAnalyzerURL,
			IsDev:             appCfg.IsDev,
			Compress:          appCfg.HTTP.CompressionEnabled,
			CompressionLevel:  appCfg.HTTP.CompressionLevel,
		},
		Logger: logger,
	}
	if svc.Backend != nil {
		services.Objects = svc.Backend.Downloads
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}
	return httpx.NewRouter(services)
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	handler, err := BuildHandler(cfg)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := ""
	if cfg.Config != nil {
		addr = cfg.Config.HTTP.Addr
	}
	return startServer(logger, handler, addr, cfg.ErrCh), nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); !isServerClosed(err) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
