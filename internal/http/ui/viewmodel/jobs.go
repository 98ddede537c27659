package viewmodel

import "github.com/navix1456/recruiter-platform/internal/domain/model"

// JobRow is a job listing with its shareable links.
type JobRow struct {
	Job      *model.Job
	ShareURL string
	ApplyURL string
}

// JobForm is the post/edit form state.
type JobForm struct {
	ID    string
	Mode  string
	Input model.JobInput
}

// ApplicantsPage is the applicant review screen for one job.
type ApplicantsPage struct {
	JobID        string
	JobTitle     string
	Applications []*model.Application
}
