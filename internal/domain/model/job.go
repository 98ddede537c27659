// Package model defines the job-board data types shared by services, repositories, and handlers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxJobTitleLen       = 200
	maxJobDescriptionLen = 20000
	maxJobFieldLen       = 255
)

// JobType is the employment type of a listing.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// JobTypes lists the supported job types in display order.
func JobTypes() []JobType {
	return []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}
}

// Valid returns true if the JobType is supported.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	default:
		return false
	}
}

// Label returns the human readable form, e.g. "Full-time".
func (t JobType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// UnmarshalText implements encoding.TextUnmarshaler for JobType.
func (t *JobType) UnmarshalText(text []byte) error {
	v := JobType(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid JobType: %q", v)
	}
	*t = v
	return nil
}

// Job is a listing owned by a single recruiter.
type Job struct {
	ID          string    `json:"id"           db:"id"`
	Title       string    `json:"title"        db:"title"`
	Description string    `json:"description"  db:"description"`
	Location    string    `json:"location"     db:"location"`
	Salary      string    `json:"salary"       db:"salary"`
	JobType     JobType   `json:"job_type"     db:"job_type"`
	RecruiterID string    `json:"recruiter_id" db:"recruiter_id"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// JobInput carries the recruiter-editable fields of a job, as submitted by the
// post and edit forms.
type JobInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Salary      string  `json:"salary"`
	JobType     JobType `json:"job_type"`
}

// Normalize trims whitespace and defaults the job type to full-time.
func (in *JobInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Salary = strings.TrimSpace(in.Salary)
	in.JobType = JobType(strings.ToLower(strings.TrimSpace(string(in.JobType))))
	if in.JobType == "" {
		in.JobType = JobTypeFullTime
	}
}

// FieldErrors validates the input and returns messages keyed by form field.
// An empty map means the input is valid. Call Normalize first.
func (in *JobInput) FieldErrors() map[string]string {
	errs := make(map[string]string)
	switch {
	case in.Title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(in.Title) > maxJobTitleLen:
		errs["title"] = fmt.Sprintf("Title cannot exceed %d characters", maxJobTitleLen)
	}
	switch {
	case in.Description == "":
		errs["description"] = "Description is required"
	case utf8.RuneCountInString(in.Description) > maxJobDescriptionLen:
		errs["description"] = "Description is too long"
	}
	if utf8.RuneCountInString(in.Location) > maxJobFieldLen {
		errs["location"] = fmt.Sprintf("Location cannot exceed %d characters", maxJobFieldLen)
	}
	if utf8.RuneCountInString(in.Salary) > maxJobFieldLen {
		errs["salary"] = fmt.Sprintf("Salary cannot exceed %d characters", maxJobFieldLen)
	}
	if !in.JobType.Valid() {
		errs["job_type"] = "Select a job type"
	}
	return errs
}

// Validate returns the first validation problem as an error.
func (in *JobInput) Validate() error {
	errs := in.FieldErrors()
	for _, field := range []string{"title", "description", "location", "salary", "job_type"} {
		if msg, ok := errs[field]; ok {
			return errors.New(msg)
		}
	}
	return nil
}

// JobInsert is the row written when a recruiter posts a job.
type JobInsert struct {
	JobInput
	RecruiterID string `json:"recruiter_id"`
}

// JobPatch is the set of columns the edit flow may change. It deliberately
// has no owner field: recruiter_id is fixed at creation.
type JobPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Salary      *string  `json:"salary,omitempty"`
	JobType     *JobType `json:"job_type,omitempty"`
}

// PatchFromInput builds a full patch from a validated edit form.
func PatchFromInput(in JobInput) JobPatch {
	return JobPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Location:    &in.Location,
		Salary:      &in.Salary,
		JobType:     &in.JobType,
	}
}

// HasUpdates reports whether any field is set.
func (p JobPatch) HasUpdates() bool {
	return p.Title != nil || p.Description != nil || p.Location != nil || p.Salary != nil || p.JobType != nil
}
