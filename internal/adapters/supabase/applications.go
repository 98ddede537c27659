package supabase

import (
	"context"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

var _ core.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo reads and writes the applications table through PostgREST.
type ApplicationRepo struct {
	c *Client
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(c *Client) *ApplicationRepo {
	return &ApplicationRepo{c: c}
}

func (r *ApplicationRepo) Create(ctx context.Context, in model.ApplicationInsert) (*model.Application, error) {
	var rows []*model.Application
	if err := r.c.from(tableApplications).insert(ctx, in, &rows); err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Application")
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var rows []*model.Application
	if err := r.c.from(tableApplications).sel("*").eq("id", id).get(ctx, &rows); err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Application")
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	var rows []*model.Application
	err := r.c.from(tableApplications).
		sel("*").
		eq("job_id", jobID).
		orderDesc("created_at").
		get(ctx, &rows)
	if err != nil {
		return nil, mapRowError(err)
	}
	return rows, nil
}

func (r *ApplicationRepo) Update(
	ctx context.Context,
	id string,
	patch model.ApplicationPatch,
) (*model.Application, error) {
	if !patch.HasUpdates() {
		return nil, apperrors.Validation("No changes to save.")
	}
	var rows []*model.Application
	if err := r.c.from(tableApplications).eq("id", id).update(ctx, patch, &rows); err != nil {
		return nil, mapRowError(err)
	}
	return first(rows, "Application")
}

// CountByJobs fetches the job_id column for the given jobs and counts locally.
func (r *ApplicationRepo) CountByJobs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(jobIDs))
	if len(jobIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		JobID string `json:"job_id"`
	}
	if err := r.c.from(tableApplications).sel("job_id").in("job_id", jobIDs).get(ctx, &rows); err != nil {
		return nil, mapRowError(err)
	}
	for _, row := range rows {
		counts[row.JobID]++
	}
	return counts, nil
}

func (r *ApplicationRepo) ResumeKeysByJob(ctx context.Context, jobID string) ([]string, error) {
	var rows []struct {
		ResumeURL string `json:"resume_url"`
	}
	if err := r.c.from(tableApplications).sel("resume_url").eq("job_id", jobID).get(ctx, &rows); err != nil {
		return nil, mapRowError(err)
	}
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.ResumeURL != "" {
			keys = append(keys, row.ResumeURL)
		}
	}
	return keys, nil
}
