package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/data/pgxutil"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

const jobColumns = `id, title, description, location, salary, job_type, recruiter_id, created_at`

var _ core.JobRepository = (*JobRepo)(nil)

// JobRepo provides database operations for job listings.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo. A nil time provider uses the system clock.
func NewJobRepo(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: orRealTime(tp)}
}

// Create inserts a new job owned by in.RecruiterID.
func (r *JobRepo) Create(ctx context.Context, in model.JobInsert) (*model.Job, error) {
	job, err := pgxutil.QueryOne[model.Job](ctx, r.DB, `
		INSERT INTO jobs (title, description, location, salary, job_type, recruiter_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+jobColumns,
		in.Title, in.Description, in.Location, in.Salary, string(in.JobType), in.RecruiterID,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return job, nil
}

// GetByID returns a job regardless of owner. Callers enforce ownership.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	job, err := pgxutil.QueryOne[model.Job](ctx, r.DB,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

// ListByRecruiter returns the recruiter's jobs, newest first.
func (r *JobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Job, error) {
	jobs, err := pgxutil.QueryAll[model.Job](ctx, r.DB,
		`SELECT `+jobColumns+` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC, id DESC`, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", apperrors.MapDBError(err))
	}
	return jobs, nil
}

// Update applies patch to the job if recruiterID owns it. The owner column
// is never part of the SET clause.
func (r *JobRepo) Update(ctx context.Context, id, recruiterID string, patch model.JobPatch) (*model.Job, error) {
	setClause, args := buildJobUpdateClause(patch)
	if setClause == "" {
		return nil, apperrors.Validation("No changes to save.")
	}
	args = append(args, id, recruiterID)
	query := "UPDATE jobs SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND recruiter_id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + jobColumns

	job, err := pgxutil.QueryOne[model.Job](ctx, r.DB, query, args...)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

func buildJobUpdateClause(p model.JobPatch) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.Salary != nil {
		add("salary", *p.Salary)
	}
	if p.JobType != nil {
		add("job_type", string(*p.JobType))
	}
	return strings.Join(sets, ", "), args
}

// Delete removes the job if recruiterID owns it. Applications cascade.
func (r *JobRepo) Delete(ctx context.Context, id, recruiterID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND recruiter_id = $2`, id, recruiterID)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("Job not found")
	}
	return nil
}

// notFoundOr maps no-rows and malformed-id errors to NotFound with msg.
func notFoundOr(err error, msg string) error {
	mapped := apperrors.MapDBError(err)
	if apperrors.IsNotFound(mapped) || apperrors.IsValidation(mapped) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, msg)
	}
	return mapped
}
