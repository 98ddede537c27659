package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	recruiter "github.com/navix1456/recruiter-platform"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthService
	Jobs         JobsService
	Applications ApplicationsService
	Submissions  SubmissionService
	Toasts       Notifier
	// Objects serves signed résumé links; nil when storage is remote.
	Objects *ObjectHandlers
	Options RouterOptions
	Logger  *slog.Logger
}

// RouterOptions carries deployment switches for the router.
type RouterOptions struct {
	Backend        string
	CookieDomain   string
	MaxUploadBytes int64
	IsDev          bool
	// ResumeAnalyzerURL is linked from the apply form when set.
	ResumeAnalyzerURL string

	// Compress enables gzip for HTML, CSS, JS and JSON responses.
	Compress         bool
	CompressionLevel int

	// TemplateFS overrides where templates are read from; tests point it at disk.
	TemplateFS fs.FS
}

// NewRouter builds the application handler. It fails only when the templates
// cannot be parsed.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := services.Options

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(opts),
		DevMode:    opts.IsDev,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:              tr,
		Auth:           services.Auth,
		Jobs:           services.Jobs,
		Applications:   services.Applications,
		Submissions:    services.Submissions,
		Toasts:         services.Toasts,
		CookieDomain:   opts.CookieDomain,
		MaxUploadBytes: opts.MaxUploadBytes,
		AnalyzerURL:    opts.ResumeAnalyzerURL,
		IsDev:          opts.IsDev,
		Logger:         logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(opts.Backend))
	mux.Handle("HEAD /healthz", healthHandler(opts.Backend))
	mux.Handle("GET /static/", staticHandler(opts.IsDev, logger))
	if services.Objects != nil {
		mux.HandleFunc("GET /objects/{bucket}/{key...}", services.Objects.Download)
	}

	registerAuthRoutes(mux, ui)
	registerPublicRoutes(mux, ui)
	registerRecruiterRoutes(mux, ui, RequireSession(services.Auth))
	mux.HandleFunc("/", ui.Root)

	mws := []Middleware{
		Recover(logger),
		Logging(logger),
	}
	if opts.Compress {
		mws = append(mws, Compression(CompressionConfig{Level: opts.CompressionLevel, Logger: logger}))
	}
	mws = append(mws,
		BrowserDetection(),
		ClientIDCookie(opts.CookieDomain),
		MaxBodyBytes(maxBody(opts.MaxUploadBytes)),
		CSRFProtection(CSRFConfig{CookieDomain: opts.CookieDomain}),
	)
	return Chain(mux, mws...), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.LoginPost)
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.HandleFunc("POST /register", h.RegisterPost)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/sso/login", h.SSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", h.SSOCallback)
	mux.HandleFunc("GET /auth/status", h.AuthStatus)
}

func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /apply/{jobId}", h.ApplyPage)
	mux.HandleFunc("POST /apply/{jobId}", h.Apply)
	mux.HandleFunc("GET /apply/{jobId}/submitted", h.Applied)
	mux.HandleFunc("GET /toast", h.Toast)
	mux.HandleFunc("POST /toast/dismiss", h.DismissToast)
}

func registerRecruiterRoutes(mux *http.ServeMux, h *UIHandlers, guard Middleware) {
	protect := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, guard(fn))
	}
	protect("GET /dashboard", h.Dashboard)
	protect("GET /post-job", h.PostJobPage)
	protect("POST /post-job", h.PostJob)
	protect("GET /my-jobs", h.MyJobs)
	protect("GET /jobs/{id}", h.JobDetail)
	protect("POST /jobs/{id}/delete", h.DeleteJob)
	protect("GET /edit-job/{id}", h.EditJobPage)
	protect("POST /edit-job/{id}", h.EditJob)
	protect("GET /applicants/{jobId}", h.Applicants)
	protect("POST /applications/{id}/shortlist", h.ToggleShortlist)
	protect("POST /applications/{id}/status", h.UpdateStatus)
	protect("GET /applications/{id}/resume", h.Resume)
}

// maxBody leaves room for the form fields around the résumé.
func maxBody(upload int64) int64 {
	if upload <= 0 {
		upload = defaultMaxUpload
	}
	return upload + 1<<20
}

func templateFS(opts RouterOptions) fs.FS {
	if opts.TemplateFS != nil {
		return opts.TemplateFS
	}
	if opts.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(recruiter.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded
// filesystem otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	sub, err := fs.Sub(recruiter.StaticFS, StaticPathFromRoot)
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// Content-hashed filenames such as app.abc12345.js, with an optional .map.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and everything else
// not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}
