package httpx

import (
	"net/http"
	"strconv"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	corefuncs "github.com/navix1456/recruiter-platform/internal/http/templates/core"
	"github.com/navix1456/recruiter-platform/internal/http/ui/viewmodel"
)

const unknownJobTitle = "Unknown Job"

// Applicants lists the applications for one of the recruiter's jobs, newest
// first. When the job cannot be loaded the page still renders, titled
// "Unknown Job" with no applicants.
func (h *UIHandlers) Applicants(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	page := viewmodel.ApplicantsPage{JobID: jobID, JobTitle: unknownJobTitle}
	status := http.StatusOK

	res, err := h.Applications.ListForJob(r.Context(), currentSession(r), jobID)
	if err != nil {
		h.logger().WarnContext(r.Context(), "load applicants failed", "job_id", jobID, "error", err)
		h.notifyError(w, r, apperrors.UserMessage(err))
		status = statusForError(err)
	} else {
		if res.Job != nil && res.Job.Title != "" {
			page.JobTitle = res.Job.Title
		}
		page.Applications = res.Applications
	}

	data := NewTemplateData(r, PageMeta{
		Title:       "Applicants: " + page.JobTitle,
		PageTitle:   page.JobTitle,
		CurrentPage: PageApplicants,
	}).With("Page", page).Build()
	h.renderPageStatus(w, r, status, data)
}

// ToggleShortlist sets or clears the shortlist flag.
func (h *UIHandlers) ToggleShortlist(w http.ResponseWriter, r *http.Request) {
	shortlisted, err := strconv.ParseBool(r.FormValue("shortlisted"))
	if err != nil {
		h.notifyError(w, r, "Invalid shortlist value.")
		h.respondApplicationError(w, r, apperrors.Validation("invalid shortlist value"))
		return
	}

	app, err := h.Applications.SetShortlisted(r.Context(), currentSession(r), r.PathValue("id"), shortlisted)
	if err != nil {
		h.notifyError(w, r, apperrors.UserMessage(err))
		h.respondApplicationError(w, r, err)
		return
	}
	msg := "Candidate removed from shortlist."
	if app.IsShortlisted {
		msg = "Candidate shortlisted."
	}
	h.notifySuccess(w, r, msg)
	h.respondApplicationRow(w, r, app)
}

// UpdateStatus moves an application to another pipeline status.
func (h *UIHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	app, err := h.Applications.SetStatus(r.Context(), currentSession(r), r.PathValue("id"), r.FormValue("status"))
	if err != nil {
		h.notifyError(w, r, apperrors.UserMessage(err))
		h.respondApplicationError(w, r, err)
		return
	}
	h.notifySuccess(w, r, "Status updated to "+corefuncs.StatusLabel(app.Status)+".")
	h.respondApplicationRow(w, r, app)
}

// Resume redirects to a short-lived signed download URL for the résumé.
func (h *UIHandlers) Resume(w http.ResponseWriter, r *http.Request) {
	url, err := h.Applications.ResumeURL(r.Context(), currentSession(r), r.PathValue("id"))
	if err != nil {
		h.logger().WarnContext(r.Context(), "resume url failed", "application_id", r.PathValue("id"), "error", err)
		h.notifyError(w, r, apperrors.UserMessage(err))
		if IsHTMX(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.handleLoadError(w, r, err)
		return
	}
	if IsHTMX(r) {
		SetHXRedirect(w, url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// respondApplicationRow re-renders the applicant row for htmx, or sends a
// plain form post back to the applicants page.
func (h *UIHandlers) respondApplicationRow(w http.ResponseWriter, r *http.Request, app *model.Application) {
	if !IsHTMX(r) {
		redirect(w, r, "/applicants/"+app.JobID)
		return
	}
	data := map[string]any{"App": app, "CSRFToken": GetCSRFToken(r)}
	if err := h.T.Render(w, "applicant-row", data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}

// respondApplicationError leaves the row untouched for htmx; the toast carries
// the message. Plain posts get a status page.
func (h *UIHandlers) respondApplicationError(w http.ResponseWriter, r *http.Request, err error) {
	if IsHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.handleLoadError(w, r, err)
}
