package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/navix1456/recruiter-platform/internal/core"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

// ResumeURLTTL is how long a résumé download link stays valid.
const ResumeURLTTL = 3600 * time.Second

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Jobs         core.JobRepository         // Required: ownership checks
	Applications core.ApplicationRepository // Required
	Storage      ApplicationStorage         // Required: signed résumé links
}

// ApplicationStorage locates résumé objects.
type ApplicationStorage struct {
	Objects ports.ObjectStore
	Bucket  string
	Logger  *slog.Logger
}

// ApplicationService lets a recruiter review applicants for their own jobs.
type ApplicationService struct {
	jobs    core.JobRepository
	apps    core.ApplicationRepository
	objects ports.ObjectStore
	bucket  string
	logger  *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Jobs == nil || opts.Applications == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("ApplicationService requires job and application repositories")
	}
	if opts.Storage.Objects == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("ApplicationService requires an ObjectStore")
	}
	logger := opts.Storage.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bucket := opts.Storage.Bucket
	if bucket == "" {
		bucket = DefaultResumeBucket
	}
	return &ApplicationService{
		jobs:    opts.Jobs,
		apps:    opts.Applications,
		objects: opts.Storage.Objects,
		bucket:  bucket,
		logger:  logger.With("component", "application_service"),
	}
}

// Applicants is the applicant review page for one job.
type Applicants struct {
	Job          *model.Job
	Applications []*model.Application
}

// ListForJob returns the applications for one of the owner's jobs, newest first.
func (s *ApplicationService) ListForJob(ctx context.Context, sess domainauth.Session, jobID string) (*Applicants, error) {
	job, err := s.ownedJob(ctx, sess, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return &Applicants{Job: job, Applications: apps}, nil
}

// SetShortlisted sets the shortlist flag of an application.
func (s *ApplicationService) SetShortlisted(ctx context.Context, sess domainauth.Session, appID string, shortlisted bool) (*model.Application, error) {
	if _, err := s.ownedApplication(ctx, sess, appID); err != nil {
		return nil, err
	}
	app, err := s.apps.Update(ctx, appID, model.ApplicationPatch{IsShortlisted: &shortlisted})
	if err != nil {
		return nil, fmt.Errorf("update shortlist status: %w", err)
	}
	return app, nil
}

// SetStatus moves an application to another pipeline status.
func (s *ApplicationService) SetStatus(ctx context.Context, sess domainauth.Session, appID, status string) (*model.Application, error) {
	st, ok := model.ParseApplicationStatus(status)
	if !ok {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("Unknown application status %q", status))
	}
	if _, err := s.ownedApplication(ctx, sess, appID); err != nil {
		return nil, err
	}
	app, err := s.apps.Update(ctx, appID, model.ApplicationPatch{Status: &st})
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return app, nil
}

// ResumeURL returns a time-limited download link for the application's résumé.
func (s *ApplicationService) ResumeURL(ctx context.Context, sess domainauth.Session, appID string) (string, error) {
	app, err := s.ownedApplication(ctx, sess, appID)
	if err != nil {
		return "", err
	}
	if app.ResumeURL == "" {
		return "", apperrors.NotFound("No resume on file for this application")
	}
	url, err := s.objects.SignedURL(ctx, s.bucket, app.ResumeURL, ResumeURLTTL)
	if err != nil {
		return "", fmt.Errorf("generate download link: %w", err)
	}
	if url == "" {
		return "", apperrors.Remote("Signed URL not returned.")
	}
	s.logger.DebugContext(ctx, "resume link issued", "application_id", appID, "ttl", ResumeURLTTL)
	return url, nil
}

func (s *ApplicationService) ownedJob(ctx context.Context, sess domainauth.Session, jobID string) (*model.Job, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}
	if jobID == "" {
		return nil, apperrors.Validation("No job ID provided to view applicants.")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
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

func (s *ApplicationService) ownedApplication(ctx context.Context, sess domainauth.Session, appID string) (*model.Application, error) {
	if _, err := ownerID(sess); err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("Application not found")
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	if _, err := s.ownedJob(ctx, sess, app.JobID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("Application not found")
		}
		return nil, err
	}
	return app, nil
}
