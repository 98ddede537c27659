package httpx

import (
	"net/http"

	"github.com/navix1456/recruiter-platform/internal/http/ui/viewmodel"
)

const errMsgFixBelow = "Please fix the errors below."

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if layout.PageTitle == "" {
		layout.PageTitle = meta.Title
	}
	if session, ok := SessionFromRequest(r); ok {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{ID: session.UserID, Email: session.Email}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
		if _, ok := b.data["ErrorMessage"]; !ok {
			b.WithError(errMsgFixBelow)
		}
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// layoutFromData extracts layout fields from a page data map.
func layoutFromData(data any) viewmodel.Layout {
	switch v := data.(type) {
	case viewmodel.LayoutProvider:
		if l := v.LayoutData(); l != nil {
			return *l
		}
	case map[string]any:
		l := viewmodel.Layout{}
		l.Title, _ = v["Title"].(string)
		l.PageTitle, _ = v["PageTitle"].(string)
		l.CurrentPage, _ = v["CurrentPage"].(string)
		return l
	}
	return viewmodel.Layout{}
}
