// Package devseed loads a demo recruiter, a handful of postings and sample
// applicants into the self-hosted backend.
package devseed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/navix1456/recruiter-platform/internal/core"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/service"
)

const (
	DefaultEmail    = "demo@recruiter.local"
	DefaultPassword = "demo-password"
)

// PasswordHasher hashes a recruiter password for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Submitter runs the public application flow.
type Submitter interface {
	Submit(ctx context.Context, in service.SubmitInput) (*model.Application, error)
}

// Repos are the stores the seeder writes to directly.
type Repos struct {
	Recruiters core.RecruiterRepository
	Jobs       core.JobRepository
	Hasher     PasswordHasher
}

// Options configures Run.
type Options struct {
	Repos       Repos
	Submissions Submitter
	// Account overrides the demo credentials.
	Account Account
}

// Account is the demo recruiter login.
type Account struct {
	Email    string
	Password string
}

// Result summarises what Run created.
type Result struct {
	RecruiterID  string
	Jobs         int
	Applications int
}

type jobSeed struct {
	input      model.JobInput
	applicants []applicantSeed
}

type applicantSeed struct {
	name  string
	email string
}

func defaultJobs() []jobSeed {
	return []jobSeed{
		{
			input: model.JobInput{
				Title:       "Senior Backend Engineer",
				Description: "Own the services behind our hiring pipeline. Go and Postgres experience preferred.",
				Location:    "Remote",
				Salary:      "$150k - $180k",
				JobType:     model.JobTypeFullTime,
			},
			applicants: []applicantSeed{
				{name: "Ada Park", email: "ada.park@example.com"},
				{name: "Sam Rivera", email: "sam.rivera@example.com"},
			},
		},
		{
			input: model.JobInput{
				Title:       "Product Designer",
				Description: "Shape the recruiter and candidate experience end to end.",
				Location:    "Berlin",
				JobType:     model.JobTypeContract,
			},
			applicants: []applicantSeed{
				{name: "Lee Novak", email: "lee.novak@example.com"},
			},
		},
		{
			input: model.JobInput{
				Title:       "Engineering Intern",
				Description: "Twelve weeks on the platform team.",
				Location:    "New York",
				JobType:     model.JobTypeInternship,
			},
		},
	}
}

// Run is idempotent: the account is reused, postings are matched by title and
// applicants already on file are skipped through the duplicate résumé check.
func Run(ctx context.Context, opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Repos.Recruiters == nil || opts.Repos.Jobs == nil || opts.Repos.Hasher == nil {
		return Result{}, errors.New("devseed: recruiter, job repositories and hasher are required")
	}
	acct := opts.Account
	if acct.Email == "" {
		acct.Email = DefaultEmail
	}
	if acct.Password == "" {
		acct.Password = DefaultPassword
	}

	recruiterID, err := ensureRecruiter(ctx, opts.Repos, acct, logger)
	if err != nil {
		return Result{}, err
	}
	res := Result{RecruiterID: recruiterID}

	existing, err := opts.Repos.Jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return res, fmt.Errorf("list jobs: %w", err)
	}
	byTitle := make(map[string]*model.Job, len(existing))
	for _, j := range existing {
		byTitle[j.Title] = j
	}

	for _, seed := range defaultJobs() {
		job, ok := byTitle[seed.input.Title]
		if !ok {
			job, err = opts.Repos.Jobs.Create(ctx, model.JobInsert{JobInput: seed.input, RecruiterID: recruiterID})
			if err != nil {
				return res, fmt.Errorf("create job %q: %w", seed.input.Title, err)
			}
			res.Jobs++
			logger.InfoContext(ctx, "seeded job", "job_id", job.ID, "title", job.Title)
		}

		if opts.Submissions == nil {
			continue
		}
		n, err := seedApplicants(ctx, opts.Submissions, job, seed.applicants, logger)
		res.Applications += n
		if err != nil {
			return res, err
		}
	}

	logger.InfoContext(ctx, "dev seed complete",
		"email", acct.Email, "jobs_created", res.Jobs, "applications_created", res.Applications)
	return res, nil
}

func ensureRecruiter(ctx context.Context, repos Repos, acct Account, logger *slog.Logger) (string, error) {
	rec, err := repos.Recruiters.GetByEmail(ctx, acct.Email)
	if err == nil {
		return rec.ID, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", fmt.Errorf("lookup recruiter: %w", err)
	}

	hash, err := repos.Hasher.HashPassword(acct.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	rec, err = repos.Recruiters.Create(ctx, acct.Email, hash)
	if err != nil {
		return "", fmt.Errorf("create recruiter: %w", err)
	}
	logger.InfoContext(ctx, "seeded recruiter", "recruiter_id", rec.ID, "email", rec.Email)
	return rec.ID, nil
}

func seedApplicants(
	ctx context.Context,
	subs Submitter,
	job *model.Job,
	applicants []applicantSeed,
	logger *slog.Logger,
) (int, error) {
	created := 0
	for _, a := range applicants {
		body := resumeBody(a, job)
		_, err := subs.Submit(ctx, service.SubmitInput{
			JobID:          job.ID,
			CandidateName:  a.name,
			CandidateEmail: a.email,
			Resume: service.ResumeUpload{
				Filename:    resumeFilename(a),
				ContentType: "application/pdf",
				Body:        bytes.NewReader(body),
				Size:        int64(len(body)),
			},
		})
		switch {
		case errors.Is(err, service.ErrDuplicateResume):
			continue
		case err != nil:
			return created, fmt.Errorf("submit application for %s: %w", a.email, err)
		}
		created++
		logger.InfoContext(ctx, "seeded application", "job_id", job.ID, "candidate", a.email)
	}
	return created, nil
}

func resumeFilename(a applicantSeed) string {
	name := make([]byte, 0, len(a.email))
	for i := range len(a.email) {
		c := a.email[i]
		if c == '@' {
			break
		}
		if c == '.' {
			c = '-'
		}
		name = append(name, c)
	}
	return string(name) + ".pdf"
}

// resumeBody is a minimal single-page PDF naming the candidate.
func resumeBody(a applicantSeed, job *model.Job) []byte {
	text := fmt.Sprintf("%s applying for %s", a.name, job.Title)
	return []byte("%PDF-1.4\n% " + text + "\n%%EOF\n")
}
