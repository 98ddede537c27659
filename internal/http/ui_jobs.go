package httpx

import (
	"context"
	"net/http"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/http/ui/viewmodel"
)

// PostJobPage renders the empty job form.
func (h *UIHandlers) PostJobPage(w http.ResponseWriter, r *http.Request) {
	h.renderJobForm(w, r, http.StatusOK, viewmodel.JobForm{
		Mode:  string(FormModeCreate),
		Input: model.JobInput{JobType: model.JobTypeFullTime},
	}, nil)
}

// PostJob creates a job from the submitted form.
func (h *UIHandlers) PostJob(w http.ResponseWriter, r *http.Request) {
	form := viewmodel.JobForm{Mode: string(FormModeCreate), Input: parseJobInput(r)}
	if errs := form.Input.FieldErrors(); len(errs) > 0 {
		h.renderJobForm(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	job, err := h.Jobs.Create(r.Context(), currentSession(r), form.Input)
	if err != nil {
		h.handleJobFormError(w, r, form, err)
		return
	}
	h.logger().InfoContext(r.Context(), "job posted", "job_id", job.ID)
	h.notifySuccess(w, r, "Job posted successfully!")
	redirect(w, r, myJobsPath)
}

// MyJobs lists the recruiter's jobs.
func (h *UIHandlers) MyJobs(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "My Jobs", CurrentPage: PageMyJobs},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Jobs"] = []viewmodel.JobRow{}
			jobs, err := h.Jobs.ListMine(ctx, sess)
			if err != nil {
				return err
			}
			data["Jobs"] = h.jobRows(jobs)
			return nil
		},
	})
}

// JobDetail shows one of the recruiter's jobs with its share link.
func (h *UIHandlers) JobDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess := currentSession(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Job details", CurrentPage: PageJob},
		Fetch: func(ctx context.Context, data map[string]any) error {
			job, err := h.Jobs.Get(ctx, sess, id)
			if err != nil {
				return err
			}
			data["Title"] = job.Title
			data["PageTitle"] = job.Title
			data["Row"] = h.jobRow(job)
			return nil
		},
	})
}

// EditJobPage renders the edit form filled from the stored job.
func (h *UIHandlers) EditJobPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := h.Jobs.Get(r.Context(), currentSession(r), id)
	if err != nil {
		h.handleLoadError(w, r, err)
		return
	}
	h.renderJobForm(w, r, http.StatusOK, viewmodel.JobForm{
		ID:   job.ID,
		Mode: string(FormModeEdit),
		Input: model.JobInput{
			Title:       job.Title,
			Description: job.Description,
			Location:    job.Location,
			Salary:      job.Salary,
			JobType:     job.JobType,
		},
	}, nil)
}

// EditJob saves the edit form. The owner never changes.
func (h *UIHandlers) EditJob(w http.ResponseWriter, r *http.Request) {
	form := viewmodel.JobForm{ID: r.PathValue("id"), Mode: string(FormModeEdit), Input: parseJobInput(r)}
	if errs := form.Input.FieldErrors(); len(errs) > 0 {
		h.renderJobForm(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	job, err := h.Jobs.Update(r.Context(), currentSession(r), form.ID, form.Input)
	if err != nil {
		h.handleJobFormError(w, r, form, err)
		return
	}
	h.notifySuccess(w, r, "Job updated successfully!")
	redirect(w, r, "/jobs/"+job.ID)
}

// DeleteJob removes a job. A row-level htmx delete gets an empty 200 so the
// row can swap itself out; anything else goes back to the list.
func (h *UIHandlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Jobs.Delete(r.Context(), currentSession(r), id); err != nil {
		h.logger().WarnContext(r.Context(), "delete job failed", "job_id", id, "error", err)
		h.notifyError(w, r, apperrors.UserMessage(err))
		if IsHTMX(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		redirect(w, r, myJobsPath)
		return
	}

	h.notifySuccess(w, r, "Job deleted.")
	if IsHTMX(r) && r.Header.Get("Hx-Target") != "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	redirect(w, r, myJobsPath)
}

func (h *UIHandlers) handleJobFormError(w http.ResponseWriter, r *http.Request, form viewmodel.JobForm, err error) {
	if fe := fieldErrorsFor(err); fe != nil && fe["_"] == "" {
		h.renderJobForm(w, r, http.StatusUnprocessableEntity, form, fe)
		return
	}
	if apperrors.IsNotFound(err) {
		h.renderNotFound(w, r, apperrors.UserMessage(err))
		return
	}
	h.logger().WarnContext(r.Context(), "save job failed", "mode", form.Mode, "error", err)
	msg := apperrors.UserMessage(err)
	h.notifyError(w, r, msg)
	data := h.jobFormData(r, form).WithError(msg).Build()
	h.renderPageStatus(w, r, statusForError(err), data)
}

// handleLoadError renders the outcome of a failed entity read.
func (h *UIHandlers) handleLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsNotFound(err) || apperrors.IsValidation(err) {
		h.renderNotFound(w, r, apperrors.UserMessage(err))
		return
	}
	h.logger().WarnContext(r.Context(), "load failed", "path", r.URL.Path, "error", err)
	msg := apperrors.UserMessage(err)
	h.notifyError(w, r, msg)
	data := NewTemplateData(r, PageMeta{Title: "Something went wrong", CurrentPage: PageNotFound}).
		With("Message", msg).
		Build()
	h.renderPageStatus(w, r, statusForError(err), data)
}

func (h *UIHandlers) renderJobForm(w http.ResponseWriter, r *http.Request, status int, form viewmodel.JobForm, errs map[string]string) {
	h.renderPageStatus(w, r, status, h.jobFormData(r, form).WithFieldErrors(errs).Build())
}

func (h *UIHandlers) jobFormData(r *http.Request, form viewmodel.JobForm) *TemplateDataBuilder {
	meta := PageMeta{Title: "Post a Job", CurrentPage: PagePostJob}
	if form.Mode == string(FormModeEdit) {
		meta = PageMeta{Title: "Edit Job", CurrentPage: PageEditJob}
	}
	return NewTemplateData(r, meta).With("Form", form)
}

func parseJobInput(r *http.Request) model.JobInput {
	in := model.JobInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		Salary:      r.FormValue("salary"),
		JobType:     model.JobType(r.FormValue("job_type")),
	}
	in.Normalize()
	return in
}

func (h *UIHandlers) jobRows(jobs []*model.Job) []viewmodel.JobRow {
	rows := make([]viewmodel.JobRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, h.jobRow(j))
	}
	return rows
}

func (h *UIHandlers) jobRow(j *model.Job) viewmodel.JobRow {
	return viewmodel.JobRow{Job: j, ShareURL: h.Jobs.ShareURL(j.ID), ApplyURL: h.Jobs.ApplyURL(j.ID)}
}
