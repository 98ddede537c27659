package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/navix1456/recruiter-platform/config"
	"github.com/navix1456/recruiter-platform/internal/data"
)

const (
	connectTimeout = 5 * time.Second

	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute

	// Every guarded request reads its session, so Redis calls fail fast
	// instead of stalling page loads.
	redisDialTimeout = 2 * time.Second
	redisIOTimeout   = 500 * time.Millisecond
	redisClientName  = "recruiter"
)

// DatabaseConfig carries what the store connectors need from the app config.
type DatabaseConfig struct {
	App    *config.AppConfig
	Logger *slog.Logger
}

// PostgresDSN renders cfg as a postgres:// URL with escaped credentials.
func PostgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectDB opens the pool behind the self-hosted backend. The supabase
// backend keeps its rows remotely, so it gets a nil DB and no error.
//
//nolint:nilnil // a nil DB is the normal result for the supabase backend.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	if cfg.App == nil {
		return nil, errors.New("config is required")
	}
	if !cfg.App.UsesPostgres() {
		return nil, nil
	}
	pg := cfg.App.Postgres

	db, err := sql.Open("pgx", PostgresDSN(pg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "database connected", "host", pg.Host, "port", pg.Port, "database", pg.Name)
	}
	return db, nil
}

// RedisOptions builds client options for the session store and the
// submission lock. URI is a redis:// or rediss:// URL, or a bare host:port.
// Timeouts given in the URL are kept.
func RedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis URI is required")
	}

	opts := &redis.Options{Addr: uri}
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	if opts.Password == "" {
		opts.Password = cfg.Password
	}
	opts.ClientName = redisClientName
	if opts.DialTimeout == 0 {
		opts.DialTimeout = redisDialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = redisIOTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = redisIOTimeout
	}
	return opts, nil
}

// ConnectRedis dials the Redis instance holding sessions and submission locks.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (*redis.Client, error) {
	if cfg.App == nil {
		return nil, errors.New("config is required")
	}
	opts, err := RedisOptions(cfg.App.Redis)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "redis connected", "addr", opts.Addr, "db", opts.DB)
	}
	return client, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := data.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
