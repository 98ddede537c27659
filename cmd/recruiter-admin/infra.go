package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/bootstrap"
)

// withDatabase connects to Postgres for the duration of f, bounded by timeout
// and cancelled on SIGINT/SIGTERM.
func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		App:    &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if db == nil {
		return errPostgresBackendRequired
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

// withRedis connects to Redis for the duration of f.
func withRedis(
	cmdCtx *commandContext,
	f func(context.Context, redis.UniversalClient) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !hasRedisConfig(&cmdCtx.Config.Redis) {
		return errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
		App:    &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}

var (
	errRedisNotConfigured      = errors.New("redis not configured; set REDIS_URI")
	errPostgresBackendRequired = errors.New("database commands require BACKEND=postgres")
)

func hasRedisConfig(cfg *config.RedisConfig) bool {
	return cfg != nil && strings.TrimSpace(cfg.URI) != ""
}
