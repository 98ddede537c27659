package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/service"
)

// AuthService is the slice of service.AuthService the UI needs.
type AuthService interface {
	SessionGuard
	SignIn(ctx context.Context, creds domainauth.Credentials) (domainauth.Session, error)
	SignUp(ctx context.Context, creds domainauth.Credentials) (domainauth.SignUpResult, error)
	SignOut(ctx context.Context, sessionID string) error
	SSOEnabled() bool
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteSSO(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error)
}

// JobsService covers job CRUD, the public job read, and the dashboard.
type JobsService interface {
	Create(ctx context.Context, sess domainauth.Session, in model.JobInput) (*model.Job, error)
	ListMine(ctx context.Context, sess domainauth.Session) ([]*model.Job, error)
	Get(ctx context.Context, sess domainauth.Session, id string) (*model.Job, error)
	GetPublic(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, sess domainauth.Session, id string, in model.JobInput) (*model.Job, error)
	Delete(ctx context.Context, sess domainauth.Session, id string) error
	ShareURL(id string) string
	ApplyURL(id string) string
	Dashboard(ctx context.Context, sess domainauth.Session) (*service.Dashboard, error)
}

// ApplicationsService covers applicant review.
type ApplicationsService interface {
	ListForJob(ctx context.Context, sess domainauth.Session, jobID string) (*service.Applicants, error)
	SetShortlisted(ctx context.Context, sess domainauth.Session, appID string, shortlisted bool) (*model.Application, error)
	SetStatus(ctx context.Context, sess domainauth.Session, appID, status string) (*model.Application, error)
	ResumeURL(ctx context.Context, sess domainauth.Session, appID string) (string, error)
}

// SubmissionService runs the public apply flow.
type SubmissionService interface {
	Submit(ctx context.Context, in service.SubmitInput) (*model.Application, error)
}

// Notifier is the per-client toast slot.
type Notifier interface {
	Publish(clientID, message string, severity model.Severity, ttl time.Duration) model.Toast
	Current(clientID string) (model.Toast, bool)
	Dismiss(clientID string)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthService         = (*service.AuthService)(nil)
	_ JobsService         = (*service.JobService)(nil)
	_ ApplicationsService = (*service.ApplicationService)(nil)
	_ SubmissionService   = (*service.SubmissionService)(nil)
	_ Notifier            = (*service.Toaster)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Auth         AuthService
	Jobs         JobsService
	Applications ApplicationsService
	Submissions  SubmissionService
	Toasts       Notifier
	CookieDomain string
	// MaxUploadBytes bounds the multipart apply form.
	MaxUploadBytes int64
	AnalyzerURL    string
	IsDev          bool
	Logger         *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// renderPage renders a page with proper HTMX partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderPageStatus(w, r, http.StatusOK, data)
}

// renderPageStatus renders the full layout, or for htmx requests the content
// plus an out-of-band title. htmx only swaps 2xx bodies, so anything htmx
// asked for goes out as 200.
func (h *UIHandlers) renderPageStatus(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if IsHTMX(r) {
		status = http.StatusOK
	}
	if !WantsPartial(r) {
		if err := h.T.RenderStatus(w, status, "layout", data); err != nil {
			h.renderTemplateFailure(w, r, err)
		}
		return
	}
	layout := layoutFromData(data)
	SetHXTrigger(w, "nav:activate", map[string]string{"page": layout.CurrentPage})
	if err := h.T.Render(w, "partial-page", data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}

func (h *UIHandlers) renderTemplateFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "page render failed", "path", r.URL.Path, "error", err)
	msg := "Something went wrong while rendering this page."
	if h.IsDev {
		msg = err.Error()
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

// notify publishes a toast for the requesting browser and tells htmx to
// refresh the toast slot.
func (h *UIHandlers) notify(w http.ResponseWriter, r *http.Request, severity model.Severity, message string) {
	if h.Toasts == nil || message == "" {
		return
	}
	h.Toasts.Publish(ClientID(r), message, severity, 0)
	SetHXTrigger(w, "toast", nil)
}

func (h *UIHandlers) notifySuccess(w http.ResponseWriter, r *http.Request, message string) {
	h.notify(w, r, model.SeveritySuccess, message)
}

func (h *UIHandlers) notifyError(w http.ResponseWriter, r *http.Request, message string) {
	h.notify(w, r, model.SeverityError, message)
}

// currentSession returns the session RequireSession attached. Handlers mounted
// behind the guard always have one.
func currentSession(r *http.Request) domainauth.Session {
	s, _ := SessionFromRequest(r)
	return s
}

// PageSpec describes a simple page: its metadata and a fetch that fills data.
// A fetch error renders the page with ErrorMessage set and a matching status.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page renders a page described by spec.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	status := http.StatusOK
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if apperrors.IsNotFound(err) {
				h.renderNotFound(w, r, apperrors.UserMessage(err))
				return
			}
			h.logger().WarnContext(r.Context(), "page fetch failed", "page", spec.Meta.CurrentPage, "error", err)
			data["Error"] = true
			data["ErrorMessage"] = apperrors.UserMessage(err)
			status = statusForError(err)
		}
	}
	h.renderPageStatus(w, r, status, data)
}

// renderNotFound renders the not-found content inside the normal layout.
func (h *UIHandlers) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "The page you're looking for doesn't exist."
	}
	data := NewTemplateData(r, PageMeta{Title: "Not found", CurrentPage: PageNotFound}).
		With("Message", message).
		Build()
	h.renderPageStatus(w, r, http.StatusNotFound, data)
}
