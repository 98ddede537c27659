package httpx

// Page identifiers select the content template and the active nav entry.
const (
	PageLogin      = "login"
	PageRegister   = "register"
	PageDashboard  = "dashboard"
	PagePostJob    = "post-job"
	PageMyJobs     = "my-jobs"
	PageJob        = "job"
	PageEditJob    = "edit-job"
	PageApply      = "apply"
	PageApplied    = "applied"
	PageApplicants = "applicants"
	PageNotFound   = "not-found"
)

// Template paths relative to the module root and to this package's tests.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
	StaticPathFromRoot   = "frontend/static"
)

// Cookie names.
const (
	sessionCookieName       = "session_id"
	clientCookieName        = "client_id"
	oauthStateCookieName    = "oauth_state"
	oauthNonceCookieName    = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Routes redirected to by handlers.
const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	myJobsPath    = "/my-jobs"
)

// FormMode distinguishes between create and edit flows in shared templates.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

//nolint:gochecknoglobals // read-only lookup table
var contentTemplates = map[string]string{
	PageLogin:      "login-content",
	PageRegister:   "register-content",
	PageDashboard:  "dashboard-content",
	PagePostJob:    "job-form-content",
	PageEditJob:    "job-form-content",
	PageMyJobs:     "my-jobs-content",
	PageJob:        "job-content",
	PageApply:      "apply-content",
	PageApplied:    "applied-content",
	PageApplicants: "applicants-content",
	PageNotFound:   "not-found-content",
}

// ContentTemplateFor returns the content template name for a page,
// defaulting to the dashboard.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "dashboard-content"
}
