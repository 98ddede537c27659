package httpx

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

const (
	resumeField      = "resume"
	defaultMaxUpload = 10 << 20
)

// applyForm is the candidate-facing form state.
type applyForm struct {
	CandidateName  string
	CandidateEmail string
}

// ApplyPage renders the public application form for a job.
func (h *UIHandlers) ApplyPage(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	job, err := h.Jobs.GetPublic(r.Context(), jobID)
	if err != nil {
		h.handleLoadError(w, r, err)
		return
	}
	h.renderApply(w, r, http.StatusOK, job, applyForm{}, nil)
}

// Apply accepts a candidate's application and résumé.
func (h *UIHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.rejectApplyBody(w, r, jobID, err)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	form := applyForm{
		CandidateName:  strings.TrimSpace(r.FormValue("candidate_name")),
		CandidateEmail: strings.TrimSpace(r.FormValue("candidate_email")),
	}
	errs := map[string]string{}
	if form.CandidateName == "" {
		errs["candidate_name"] = "Full name is required"
	}
	if form.CandidateEmail == "" {
		errs["candidate_email"] = "Email is required"
	}

	file, header, err := r.FormFile(resumeField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		errs[resumeField] = "Resume is required"
	case err != nil:
		errs[resumeField] = "Resume could not be read"
	case header.Size > h.maxUpload():
		errs[resumeField] = fmt.Sprintf("Resume must be %d MB or smaller", h.maxUpload()>>20)
	}
	if file != nil {
		defer file.Close()
	}
	if len(errs) > 0 {
		h.renderApplyFor(w, r, http.StatusUnprocessableEntity, jobID, form, errs)
		return
	}

	app, err := h.Submissions.Submit(r.Context(), service.SubmitInput{
		JobID:          jobID,
		CandidateName:  form.CandidateName,
		CandidateEmail: form.CandidateEmail,
		Resume:         resumeUpload(file, header),
	})
	if err != nil {
		h.handleSubmitError(w, r, jobID, form, err)
		return
	}

	h.logger().InfoContext(r.Context(), "application received", "job_id", jobID, "application_id", app.ID)
	h.notifySuccess(w, r, "Application submitted successfully!")
	redirect(w, r, "/apply/"+jobID+"/submitted")
}

// Applied is the confirmation shown after a successful submission.
func (h *UIHandlers) Applied(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	data := NewTemplateData(r, PageMeta{Title: "Application received", CurrentPage: PageApplied}).
		With("JobID", jobID)
	if job, err := h.Jobs.GetPublic(r.Context(), jobID); err == nil {
		data.With("Job", job)
	}
	h.renderPage(w, r, data.Build())
}

func (h *UIHandlers) handleSubmitError(w http.ResponseWriter, r *http.Request, jobID string, form applyForm, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateResume):
		h.notifyError(w, r, err.Error())
		h.renderApplyFor(w, r, http.StatusConflict, jobID, form, map[string]string{resumeField: err.Error()})
	case errors.Is(err, service.ErrSubmissionInFlight):
		h.notifyError(w, r, err.Error())
		h.renderApplyFor(w, r, http.StatusConflict, jobID, form, nil)
	case apperrors.IsValidation(err) && apperrors.GetField(err) != "":
		h.renderApplyFor(w, r, http.StatusUnprocessableEntity, jobID, form, fieldErrorsFor(err))
	default:
		h.logger().WarnContext(r.Context(), "application submission failed", "job_id", jobID, "error", err)
		msg := apperrors.UserMessage(err)
		h.notifyError(w, r, msg)
		h.renderApplyFor(w, r, statusForError(err), jobID, form, map[string]string{"_": msg})
	}
}

// rejectApplyBody handles a multipart body that could not be parsed, most
// often because it exceeded the upload cap.
func (h *UIHandlers) rejectApplyBody(w http.ResponseWriter, r *http.Request, jobID string, err error) {
	status := http.StatusBadRequest
	msg := "The application form could not be read."
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		msg = fmt.Sprintf("Resume must be %d MB or smaller", h.maxUpload()>>20)
	}
	h.logger().InfoContext(r.Context(), "application body rejected", "job_id", jobID, "error", err)
	h.notifyError(w, r, msg)
	h.renderApplyFor(w, r, status, jobID, applyForm{}, map[string]string{resumeField: msg})
}

// renderApplyFor re-renders the form after a failed submission. The job is
// looked up again only for display.
func (h *UIHandlers) renderApplyFor(w http.ResponseWriter, r *http.Request, status int, jobID string, form applyForm, errs map[string]string) {
	job, err := h.Jobs.GetPublic(r.Context(), jobID)
	if err != nil {
		h.handleLoadError(w, r, err)
		return
	}
	h.renderApply(w, r, status, job, form, errs)
}

func (h *UIHandlers) renderApply(w http.ResponseWriter, r *http.Request, status int, job *model.Job, form applyForm, errs map[string]string) {
	data := NewTemplateData(r, PageMeta{Title: "Apply: " + job.Title, CurrentPage: PageApply}).
		With("Job", job).
		With("Form", form).
		With("MaxUploadMB", h.maxUpload()>>20).
		With("AnalyzerURL", h.AnalyzerURL)
	if msg, ok := errs["_"]; ok {
		data.WithError(msg)
	}
	h.renderPageStatus(w, r, status, data.WithFieldErrors(errs).Build())
}

func (h *UIHandlers) maxUpload() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultMaxUpload
}

func resumeUpload(file multipart.File, header *multipart.FileHeader) service.ResumeUpload {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return service.ResumeUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
		Size:        header.Size,
	}
}
