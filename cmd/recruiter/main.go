package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg

	logStartupInfo(ctx, logger, cfgPtr)

	if err = bootstrap.ValidateConfig(cfgPtr); err != nil {
		return err
	}

	db, redisClient, err := initInfrastructure(ctx, cfgPtr, logger)
	if err != nil {
		return err
	}
	defer closeInfrastructure(ctx, logger, db, redisClient)

	if db != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	backend, err := bootstrap.BuildBackend(bootstrap.BackendDeps{Config: cfgPtr, DB: db, Logger: logger})
	if err != nil {
		return err
	}

	services, err := bootstrap.NewServices(bootstrap.ServiceDeps{
		Config:      cfgPtr,
		Backend:     backend,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	return bootstrap.RunWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	attrs := []any{"backend", cfg.Backend, "addr", cfg.HTTP.Addr, "dev", cfg.IsDev}
	if cfg.UsesPostgres() {
		attrs = append(attrs, "db_host", cfg.Postgres.Host, "db_port", cfg.Postgres.Port, "db_name", cfg.Postgres.Name)
	}
	logger.InfoContext(ctx, "starting recruiter service", attrs...)
}

// initInfrastructure connects Redis always and Postgres only for the
// self-hosted backend.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, *redis.Client, error) {
	dbCfg := bootstrap.DatabaseConfig{App: cfg, Logger: logger}
	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		if db != nil {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database after redis connect failure", "error", cerr)
				return nil, nil, fmt.Errorf("connect redis: %w", errors.Join(err, fmt.Errorf("close database: %w", cerr)))
			}
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	return db, redisClient, nil
}

func closeInfrastructure(ctx context.Context, logger *slog.Logger, db *sql.DB, redisClient *redis.Client) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.ErrorContext(ctx, "close database failed", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", err)
		}
	}
}
