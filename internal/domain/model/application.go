package model

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ApplicationStatus tracks where a candidate is in the hiring pipeline.
type ApplicationStatus string

const (
	ApplicationStatusNew         ApplicationStatus = "new"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// ApplicationStatuses lists every status in pipeline order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusNew,
		ApplicationStatusReviewed,
		ApplicationStatusShortlisted,
		ApplicationStatusInterviewed,
		ApplicationStatusRejected,
		ApplicationStatusHired,
	}
}

// Valid reports whether the status is one of the pipeline statuses.
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// ParseApplicationStatus normalizes value and reports whether it is supported.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	s := ApplicationStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Application is a candidate's submission against a job.
type Application struct {
	ID             string            `json:"id"              db:"id"`
	JobID          string            `json:"job_id"          db:"job_id"`
	CandidateName  string            `json:"candidate_name"  db:"candidate_name"`
	CandidateEmail string            `json:"candidate_email" db:"candidate_email"`
	ResumeURL      string            `json:"resume_url"      db:"resume_url"`
	Status         ApplicationStatus `json:"status"          db:"status"`
	IsShortlisted  bool              `json:"is_shortlisted"  db:"is_shortlisted"`
	CreatedAt      time.Time         `json:"created_at"      db:"created_at"`
}

// ApplicationInsert is the row written by the public apply flow.
type ApplicationInsert struct {
	JobID          string            `json:"job_id"`
	CandidateName  string            `json:"candidate_name"`
	CandidateEmail string            `json:"candidate_email"`
	ResumeURL      string            `json:"resume_url"`
	Status         ApplicationStatus `json:"status"`
	IsShortlisted  bool              `json:"is_shortlisted"`
}

// ApplicationPatch carries the recruiter-controlled fields of an application.
type ApplicationPatch struct {
	Status        *ApplicationStatus `json:"status,omitempty"`
	IsShortlisted *bool              `json:"is_shortlisted,omitempty"`
}

// HasUpdates reports whether any field is set.
func (p ApplicationPatch) HasUpdates() bool {
	return p.Status != nil || p.IsShortlisted != nil
}

// CleanFilename reduces an uploaded file name to its base name, stripping any
// client-supplied directories. It returns an error when nothing usable remains.
func CleanFilename(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := strings.TrimSpace(path.Base(name))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return base, nil
}

// ResumeKey returns the object key a résumé is stored under: {jobId}/{filename}.
func ResumeKey(jobID, filename string) string {
	return jobID + "/" + filename
}
