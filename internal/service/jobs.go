package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/navix1456/recruiter-platform/internal/core"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"golang.org/x/sync/errgroup"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs         core.JobRepository         // Required: job repository
	Applications core.ApplicationRepository // Required: used for counts and cascade cleanup
	Config       JobServiceConfig
}

// JobServiceConfig holds the optional parts of JobService.
type JobServiceConfig struct {
	// Objects and Bucket enable résumé cleanup when a job is deleted.
	Objects ports.ObjectStore
	Bucket  string
	// BaseURL prefixes share and apply links.
	BaseURL string
	Logger  *slog.Logger
}

// JobService implements the recruiter's job CRUD flows. Every recruiter-facing
// operation is scoped to the session owner; other recruiters' jobs read as not found.
type JobService struct {
	jobs    core.JobRepository
	apps    core.ApplicationRepository
	objects ports.ObjectStore
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Jobs == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("JobService requires a JobRepository")
	}
	if opts.Applications == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("JobService requires an ApplicationRepository")
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bucket := opts.Config.Bucket
	if bucket == "" {
		bucket = DefaultResumeBucket
	}
	return &JobService{
		jobs:    opts.Jobs,
		apps:    opts.Applications,
		objects: opts.Config.Objects,
		bucket:  bucket,
		baseURL: strings.TrimRight(opts.Config.BaseURL, "/"),
		logger:  logger.With("component", "job_service"),
	}
}

func errJobNotFound() error { return apperrors.NotFound("Job not found") }

func ownerID(sess domainauth.Session) (string, error) {
	if sess.UserID == "" {
		return "", apperrors.Unauthorized("User not authenticated. Please log in.")
	}
	return sess.UserID, nil
}

// validateJobInput normalizes in and reports the first invalid field.
func validateJobInput(in *model.JobInput) error {
	in.Normalize()
	errs := in.FieldErrors()
	for _, field := range []string{"title", "description", "location", "salary", "job_type"} {
		if msg, ok := errs[field]; ok {
			return apperrors.ValidationField(field, msg)
		}
	}
	return nil
}

// Create posts a new job owned by the session's recruiter.
func (s *JobService) Create(ctx context.Context, sess domainauth.Session, in model.JobInput) (*model.Job, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job, err := s.jobs.Create(ctx, model.JobInsert{JobInput: in, RecruiterID: owner})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.DebugContext(ctx, "job created", "job_id", job.ID, "recruiter_id", owner)
	return job, nil
}

// ListMine returns the session owner's jobs, newest first.
func (s *JobService) ListMine(ctx context.Context, sess domainauth.Session) ([]*model.Job, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByRecruiter(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Get returns one of the session owner's jobs.
func (s *JobService) Get(ctx context.Context, sess domainauth.Session, id string) (*model.Job, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, errJobNotFound()
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errJobNotFound()
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job.RecruiterID != owner {
		return nil, errJobNotFound()
	}
	return job, nil
}

// GetPublic returns any job by ID for the public apply page.
func (s *JobService) GetPublic(ctx context.Context, id string) (*model.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.Validation("No job ID provided for application.")
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errJobNotFound()
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update rewrites the editable fields of one of the owner's jobs. The owner
// itself is never part of the patch.
func (s *JobService) Update(ctx context.Context, sess domainauth.Session, id string, in model.JobInput) (*model.Job, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job, err := s.jobs.Update(ctx, id, owner, model.PatchFromInput(in))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errJobNotFound()
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes one of the owner's jobs. Applications go with it; résumé
// objects are removed afterwards on a best-effort basis.
func (s *JobService) Delete(ctx context.Context, sess domainauth.Session, id string) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}

	var keys []string
	if s.objects != nil {
		var err error
		keys, err = s.apps.ResumeKeysByJob(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "collect resume keys failed", "job_id", id, "error", err)
			keys = nil
		}
	}

	if err := s.jobs.Delete(ctx, id, sess.UserID); err != nil {
		if apperrors.IsNotFound(err) {
			return errJobNotFound()
		}
		return fmt.Errorf("delete job: %w", err)
	}

	if len(keys) > 0 {
		if err := s.objects.Remove(ctx, s.bucket, keys); err != nil {
			s.logger.WarnContext(ctx, "remove resumes after job delete failed",
				"job_id", id,
				"resume_count", len(keys),
				"error", err,
			)
		}
	}
	return nil
}

// ShareURL is the link copied by the job detail page.
func (s *JobService) ShareURL(id string) string {
	return s.baseURL + "/jobs/" + id
}

// ApplyURL is the public application link for a job.
func (s *JobService) ApplyURL(id string) string {
	return s.baseURL + "/apply/" + id
}

// JobSummary pairs a job with its applicant count.
type JobSummary struct {
	Job        *model.Job
	Applicants int
}

// Dashboard is the signed-in recruiter's overview.
type Dashboard struct {
	Email           string
	JobCount        int
	ApplicantCount  int
	Recent          []JobSummary
	CountsAvailable bool
}

const dashboardRecentJobs = 5

// Dashboard loads the recruiter's jobs and applicant counts concurrently.
func (s *JobService) Dashboard(ctx context.Context, sess domainauth.Session) (*Dashboard, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobs.ListByRecruiter(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	dash := &Dashboard{Email: sess.Email, JobCount: len(jobs)}
	if len(jobs) == 0 {
		dash.CountsAvailable = true
		return dash, nil
	}

	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}

	counts := make([]int, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(ids); start += countBatchSize {
		end := min(start+countBatchSize, len(ids))
		g.Go(func() error {
			m, err := s.apps.CountByJobs(gctx, ids[start:end])
			if err != nil {
				return err
			}
			for i := start; i < end; i++ {
				counts[i] = m[ids[i]]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Counts are decoration; the page still renders the job list.
		s.logger.WarnContext(ctx, "count applicants failed", "recruiter_id", owner, "error", err)
		clear(counts)
	} else {
		dash.CountsAvailable = true
	}

	for i, j := range jobs {
		dash.ApplicantCount += counts[i]
		if i < dashboardRecentJobs {
			dash.Recent = append(dash.Recent, JobSummary{Job: j, Applicants: counts[i]})
		}
	}
	return dash, nil
}

const countBatchSize = 50
