package data

import (
	"context"
	"database/sql"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/data/pgxutil"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

var _ core.RecruiterRepository = (*RecruiterRepo)(nil)

// RecruiterRepo stores local recruiter accounts.
type RecruiterRepo struct {
	DB *sql.DB
}

// NewRecruiterRepo creates a new RecruiterRepo.
func NewRecruiterRepo(db *sql.DB) *RecruiterRepo {
	return &RecruiterRepo{DB: db}
}

func (r *RecruiterRepo) Create(ctx context.Context, email, passwordHash string) (*core.Recruiter, error) {
	rec, err := pgxutil.QueryOne[core.Recruiter](ctx, r.DB,
		`INSERT INTO recruiters (email, password_hash) VALUES ($1, $2) RETURNING id, email, password_hash`,
		email, passwordHash)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return rec, nil
}

func (r *RecruiterRepo) GetByEmail(ctx context.Context, email string) (*core.Recruiter, error) {
	rec, err := pgxutil.QueryOne[core.Recruiter](ctx, r.DB,
		`SELECT id, email, password_hash FROM recruiters WHERE email = $1`, email)
	if err != nil {
		return nil, notFoundOr(err, "Recruiter not found")
	}
	return rec, nil
}

func (r *RecruiterRepo) GetByID(ctx context.Context, id string) (*core.Recruiter, error) {
	rec, err := pgxutil.QueryOne[core.Recruiter](ctx, r.DB,
		`SELECT id, email, password_hash FROM recruiters WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "Recruiter not found")
	}
	return rec, nil
}
