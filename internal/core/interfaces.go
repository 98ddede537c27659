package core

import (
	"context"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and the relational store.
// Both the PostgREST adapter and the pgx repositories implement them.

// JobRepository defines the interface for job data operations. Methods that take a
// recruiterID only match jobs owned by that recruiter.
type JobRepository interface {
	Create(ctx context.Context, in model.JobInsert) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]*model.Job, error)
	Update(ctx context.Context, id, recruiterID string, patch model.JobPatch) (*model.Job, error)
	Delete(ctx context.Context, id, recruiterID string) error
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, in model.ApplicationInsert) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	// ListByJob returns applications newest first.
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	Update(ctx context.Context, id string, patch model.ApplicationPatch) (*model.Application, error)
	CountByJobs(ctx context.Context, jobIDs []string) (map[string]int, error)
	ResumeKeysByJob(ctx context.Context, jobID string) ([]string, error)
}

// Recruiter is a locally managed account used by the self-hosted backend.
type Recruiter struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

// RecruiterRepository stores local recruiter accounts.
type RecruiterRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*Recruiter, error)
	GetByEmail(ctx context.Context, email string) (*Recruiter, error)
	GetByID(ctx context.Context, id string) (*Recruiter, error)
}
