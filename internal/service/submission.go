package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/observability/metrics"
	"github.com/navix1456/recruiter-platform/internal/observability/statsd"
	"github.com/navix1456/recruiter-platform/internal/ports"
)

// DefaultResumeBucket is the object-store bucket holding résumés.
const DefaultResumeBucket = "resumes"

const defaultSubmissionLockTTL = 2 * time.Minute

var (
	// ErrDuplicateResume is returned when a résumé with the same file name was
	// already uploaded for the job.
	ErrDuplicateResume = errors.New("A resume with this filename was already submitted for this job")
	// ErrSubmissionInFlight is returned while another submission for the same
	// job and candidate email is still running.
	ErrSubmissionInFlight = errors.New("An application for this job is already being submitted")
)

// SubmissionServiceOptions groups dependencies for SubmissionService.
type SubmissionServiceOptions struct {
	Applications core.ApplicationRepository // Required
	Objects      ports.ObjectStore          // Required
	Config       SubmissionConfig
}

// SubmissionConfig holds optional collaborators and tuning for SubmissionService.
type SubmissionConfig struct {
	Bucket string
	// Locker guards against concurrent submissions; defaults to a MemoryLocker.
	Locker  ports.Locker
	LockTTL time.Duration
	Metrics statsd.Sink
	Logger  *slog.Logger
	Now     func() time.Time
}

// ResumeUpload is the file part of an application.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	// Size is the body length when known, or -1.
	Size int64
}

// SubmitInput is a candidate's application form.
type SubmitInput struct {
	JobID          string
	CandidateName  string
	CandidateEmail string
	Resume         ResumeUpload
}

// SubmissionService runs the public application protocol: upload the résumé
// without overwrite, then insert the row, removing the upload exactly once if
// the insert fails.
type SubmissionService struct {
	apps    core.ApplicationRepository
	objects ports.ObjectStore
	bucket  string
	locker  ports.Locker
	lockTTL time.Duration
	metrics statsd.Sink
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubmissionService constructs a new SubmissionService.
func NewSubmissionService(opts SubmissionServiceOptions) *SubmissionService {
	if opts.Applications == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("SubmissionService requires an ApplicationRepository")
	}
	if opts.Objects == nil {
		//nolint:forbidigo // constructor fails fast on missing dependencies
		panic("SubmissionService requires an ObjectStore")
	}

	cfg := opts.Config
	s := &SubmissionService{
		apps:    opts.Applications,
		objects: opts.Objects,
		bucket:  cfg.Bucket,
		locker:  cfg.Locker,
		lockTTL: cfg.LockTTL,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if s.bucket == "" {
		s.bucket = DefaultResumeBucket
	}
	if s.locker == nil {
		s.locker = NewMemoryLocker()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = defaultSubmissionLockTTL
	}
	if s.metrics == nil {
		s.metrics = statsd.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "submission_service")
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit validates the form and runs the upload-then-insert protocol once.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*model.Application, error) {
	start := s.now()
	m := metrics.SubmissionMetric{}
	defer func() {
		m.Duration = s.now().Sub(start)
		metrics.EmitSubmission(s.metrics, m)
	}()

	filename, err := s.validate(&in)
	if err != nil {
		m.Result, m.Err = metrics.ResultInvalid, err
		return nil, err
	}

	release, err := s.claim(ctx, in)
	if err != nil {
		m.Result, m.Err = metrics.ResultInFlight, err
		return nil, err
	}
	defer release()

	key := model.ResumeKey(in.JobID, filename)
	if _, err := s.objects.Upload(ctx, ports.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: in.Resume.ContentType,
		Body:        in.Resume.Body,
		Size:        in.Resume.Size,
		Overwrite:   false,
	}); err != nil {
		if errors.Is(err, ports.ErrObjectExists) {
			m.Result, m.Err = metrics.ResultDuplicate, ErrDuplicateResume
			return nil, ErrDuplicateResume
		}
		m.Result, m.Err = metrics.ResultUploadError, err
		return nil, err
	}

	app, err := s.apps.Create(ctx, model.ApplicationInsert{
		JobID:          in.JobID,
		CandidateName:  in.CandidateName,
		CandidateEmail: in.CandidateEmail,
		ResumeURL:      key,
		Status:         model.ApplicationStatusNew,
		IsShortlisted:  false,
	})
	if err != nil {
		m.Result, m.Err = metrics.ResultInsertError, err
		m.Compensated = true
		m.CompensationErr = s.compensate(ctx, in.JobID, key)
		return nil, err
	}

	m.Result = metrics.ResultOK
	s.logger.InfoContext(ctx, "application submitted", "job_id", in.JobID, "application_id", app.ID)
	return app, nil
}

// compensate removes the uploaded résumé after a failed insert. Its failure is
// logged and reported to metrics, never to the caller.
func (s *SubmissionService) compensate(ctx context.Context, jobID, key string) error {
	// The request may have been cancelled; the cleanup still has to run.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.objects.Remove(cctx, s.bucket, []string{key}); err != nil {
		s.logger.WarnContext(ctx, "compensating resume removal failed",
			"job_id", jobID,
			"resume_key", key,
			"error", err,
		)
		return err
	}
	return nil
}

func (s *SubmissionService) validate(in *SubmitInput) (string, error) {
	in.JobID = strings.TrimSpace(in.JobID)
	in.CandidateName = strings.TrimSpace(in.CandidateName)
	in.CandidateEmail = strings.TrimSpace(in.CandidateEmail)

	if in.JobID == "" {
		return "", apperrors.Validation("No job ID provided for application.")
	}
	// The job ID becomes the object key prefix, so only canonical UUIDs pass.
	jobID, err := uuid.Parse(in.JobID)
	if err != nil {
		return "", apperrors.Validation("Invalid job ID for application.")
	}
	in.JobID = jobID.String()
	if in.CandidateName == "" {
		return "", apperrors.ValidationField("candidate_name", "Full name is required")
	}
	if !model.ValidEmail(in.CandidateEmail) {
		return "", apperrors.ValidationField("candidate_email", model.ErrInvalidEmail.Error())
	}
	if in.Resume.Body == nil {
		return "", apperrors.ValidationField("resume", "Resume is required")
	}
	filename, err := model.CleanFilename(in.Resume.Filename)
	if err != nil {
		return "", apperrors.ValidationField("resume", "Resume file name is invalid")
	}
	return filename, nil
}

// claim takes the in-flight lock for the job and candidate email. A locker
// outage does not block submissions; the storage duplicate check still applies.
func (s *SubmissionService) claim(ctx context.Context, in SubmitInput) (func(), error) {
	key := in.JobID + ":" + strings.ToLower(in.CandidateEmail)
	release, ok, err := s.locker.TryLock(ctx, key, s.lockTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "submission lock unavailable", "job_id", in.JobID, "error", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	return release, nil
}
