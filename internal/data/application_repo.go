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

const applicationColumns = `id, job_id, candidate_name, candidate_email, resume_url, status, is_shortlisted, created_at`

var _ core.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo provides database operations for candidate applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: orRealTime(tp)}
}

func (r *ApplicationRepo) Create(ctx context.Context, in model.ApplicationInsert) (*model.Application, error) {
	status := in.Status
	if status == "" {
		status = model.ApplicationStatusNew
	}
	app, err := pgxutil.QueryOne[model.Application](ctx, r.DB, `
		INSERT INTO applications (job_id, candidate_name, candidate_email, resume_url, status, is_shortlisted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+applicationColumns,
		in.JobID, in.CandidateName, in.CandidateEmail, in.ResumeURL, string(status), in.IsShortlisted,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return app, nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	app, err := pgxutil.QueryOne[model.Application](ctx, r.DB,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}
	return app, nil
}

// ListByJob returns the job's applications, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	apps, err := pgxutil.QueryAll[model.Application](ctx, r.DB,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC, id DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", apperrors.MapDBError(err))
	}
	return apps, nil
}

func (r *ApplicationRepo) Update(
	ctx context.Context,
	id string,
	patch model.ApplicationPatch,
) (*model.Application, error) {
	var sets []string
	var args []any
	if patch.Status != nil {
		args = append(args, string(*patch.Status))
		sets = append(sets, "status = $"+strconv.Itoa(len(args)))
	}
	if patch.IsShortlisted != nil {
		args = append(args, *patch.IsShortlisted)
		sets = append(sets, "is_shortlisted = $"+strconv.Itoa(len(args)))
	}
	if len(sets) == 0 {
		return nil, apperrors.Validation("No changes to save.")
	}
	args = append(args, id)
	query := "UPDATE applications SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING " + applicationColumns

	app, err := pgxutil.QueryOne[model.Application](ctx, r.DB, query, args...)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Application not found")
		}
		return nil, mapped
	}
	return app, nil
}

type jobCount struct {
	JobID string `db:"job_id"`
	N     int    `db:"n"`
}

// CountByJobs returns application counts keyed by job id. Jobs without
// applications are absent from the map.
func (r *ApplicationRepo) CountByJobs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	rows, err := pgxutil.QueryAll[jobCount](ctx, r.DB,
		`SELECT job_id::text AS job_id, count(*)::int AS n FROM applications WHERE job_id::text = ANY($1::text[]) GROUP BY job_id`,
		jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", apperrors.MapDBError(err))
	}
	for _, row := range rows {
		out[row.JobID] = row.N
	}
	return out, nil
}

type resumeKey struct {
	ResumeURL string `db:"resume_url"`
}

func (r *ApplicationRepo) ResumeKeysByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := pgxutil.QueryAll[resumeKey](ctx, r.DB,
		`SELECT resume_url FROM applications WHERE job_id = $1 AND resume_url <> ''`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume keys: %w", apperrors.MapDBError(err))
	}
	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = row.ResumeURL
	}
	return keys, nil
}
