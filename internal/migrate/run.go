// Package migrate applies the embedded SQL schema for the self-hosted backend.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Versions returns the embedded migration versions in apply order.
func Versions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Run applies every pending migration and returns the versions it applied.
// Calling it again is a no-op.
func Run(ctx context.Context, db *sql.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	versions, err := Versions()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "migrations")
	var applied []string
	for _, v := range versions {
		done, applyErr := apply(ctx, db, logger, v)
		if applyErr != nil {
			return applied, applyErr
		}
		if done {
			applied = append(applied, v)
		}
	}
	return applied, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

// apply runs one migration in its own transaction. It reports false when the
// version was already recorded.
func apply(ctx context.Context, db *sql.DB, logger *slog.Logger, version string) (bool, error) {
	exists, err := isApplied(ctx, db, version)
	if err != nil || exists {
		return false, err
	}

	body, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", version, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rbErr, "version", version)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return false, fmt.Errorf("exec migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return false, fmt.Errorf("record migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration %s: %w", version, err)
	}
	return true, nil
}
