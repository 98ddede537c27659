package testutil

import (
	"context"
	"database/sql"
	"time"
)

// SeedRecruiter inserts a recruiter row with an unusable password and returns its id.
func SeedRecruiter(t TestingTB, db *sql.DB, email string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	if err := db.QueryRowContext(ctx,
		`INSERT INTO recruiters (email, password_hash) VALUES ($1, '') RETURNING id`, email).Scan(&id); err != nil {
		t.Fatalf("seed recruiter %s: %v", email, err)
	}
	return id
}

// SeedJob inserts a minimal job for recruiterID and returns its id.
func SeedJob(t TestingTB, db *sql.DB, recruiterID, title string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	if err := db.QueryRowContext(ctx,
		`INSERT INTO jobs (title, description, recruiter_id) VALUES ($1, $2, $3) RETURNING id`,
		title, title+" description", recruiterID).Scan(&id); err != nil {
		t.Fatalf("seed job %s: %v", title, err)
	}
	return id
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to the given bool value.
func BoolPtr(b bool) *bool { return &b }
