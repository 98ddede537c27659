// Package data holds the pgx-backed repositories used by the self-hosted backend.
package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/navix1456/recruiter-platform/internal/migrate"
)

// RunMigrations applies pending schema migrations and logs what changed.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	applied, err := migrate.Run(ctx, db)
	if err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "database schema up to date", "applied", len(applied))
	return nil
}
