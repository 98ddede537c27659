package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	corefuncs "github.com/navix1456/recruiter-platform/internal/http/templates/core"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	mu      sync.RWMutex
	t       *template.Template
	fsys    fs.FS
	devMode bool // re-parse templates on every render
	now     func() time.Time
	logger  *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	DevMode    bool         // Reload templates from TemplateFS on each render
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses the layout, page, and partial templates.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &TemplateRenderer{fsys: cfg.TemplateFS, devMode: cfg.DevMode, now: time.Now, logger: logger}
	t, err := r.parse()
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	r.t = t
	return r, nil
}

func (r *TemplateRenderer) parse() (*template.Template, error) {
	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
		Now:                r.now,
	})
	parsed, err := template.New("root").Funcs(funcs).ParseFS(r.fsys,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		return nil, err
	}
	t = parsed
	return t, nil
}

func (r *TemplateRenderer) templates() *template.Template {
	if r.devMode {
		if t, err := r.parse(); err == nil {
			r.mu.Lock()
			r.t = t
			r.mu.Unlock()
		} else {
			r.logger.Warn("template reload failed; using previous set", slog.Any("error", err))
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.t
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, data any) error {
	return r.Render(w, "layout", data)
}

// RenderPartial renders only the content template of page.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, page string, data any) error {
	return r.Render(w, ContentTemplateFor(page), data)
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, data any) error {
	return r.Render(w, "error-layout", data)
}

// Render executes a named template with status 200.
func (r *TemplateRenderer) Render(w http.ResponseWriter, name string, data any) error {
	return r.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes a named template into a buffer and writes it with
// status on success, so a failing template never produces a half-written
// response.
func (r *TemplateRenderer) RenderStatus(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates().ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", slog.String("template", name), slog.Any("error", err))
		return err
	}
	return nil
}
