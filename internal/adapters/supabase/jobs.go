package supabase

import (
	"context"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

const (
	tableJobs         = "jobs"
	tableApplications = "applications"
)

var _ core.JobRepository = (*JobRepo)(nil)

// JobRepo reads and writes the jobs table through PostgREST. Calls run as
// the recruiter whose session is carried in ctx, so row level security
// applies in addition to the explicit owner filters.
type JobRepo struct {
	c *Client
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(c *Client) *JobRepo {
	return &JobRepo{c: c}
}

func (r *JobRepo) Create(ctx context.Context, in model.JobInsert) (*model.Job, error) {
	var rows []*model.Job
	if err := r.c.from(tableJobs).insert(ctx, in, &rows); err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Job")
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var rows []*model.Job
	if err := r.c.from(tableJobs).sel("*").eq("id", id).get(ctx, &rows); err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Job")
}

func (r *JobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Job, error) {
	var rows []*model.Job
	err := r.c.from(tableJobs).
		sel("*").
		eq("recruiter_id", recruiterID).
		orderDesc("created_at").
		get(ctx, &rows)
	if err != nil {
		return nil, mapRowError(err)
	}
	return rows, nil
}

func (r *JobRepo) Update(ctx context.Context, id, recruiterID string, patch model.JobPatch) (*model.Job, error) {
	if !patch.HasUpdates() {
		return nil, apperrors.Validation("No changes to save.")
	}
	var rows []*model.Job
	err := r.c.from(tableJobs).
		eq("id", id).
		eq("recruiter_id", recruiterID).
		update(ctx, patch, &rows)
	if err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Job")
}

func (r *JobRepo) Delete(ctx context.Context, id, recruiterID string) error {
	var rows []*model.Job
	err := r.c.from(tableJobs).
		eq("id", id).
		eq("recruiter_id", recruiterID).
		delete(ctx, &rows)
	if err != nil {
		return mapRowError(err)
	}
	if len(rows) == 0 {
		return apperrors.NotFound("Job not found")
	}
	return nil
}

// first returns the single row of a PostgREST representation, or NotFound.
func first[T any](rows []*T, what string) (*T, error) {
	if len(rows) == 0 || rows[0] == nil {
		return nil, apperrors.NotFound(what + " not found")
	}
	return rows[0], nil
}
