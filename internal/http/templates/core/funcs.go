// Package core provides the template helpers used across every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	"github.com/navix1456/recruiter-platform/internal/http/ui/viewmodel"
	"github.com/navix1456/recruiter-platform/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"postedAgo":    func(t time.Time) string { return uiutil.RelativeSince(t, now()) },
		"formatDate":   uiutil.FormatDate,
		"timeTag":      timeTag,
		"excerpt":      uiutil.Excerpt,
		"add":          func(a, b int) int { return a + b },
		"contains":     strings.Contains,
		"formatNumber": formatNumber,
		"statusLabel":  StatusLabel,
		"statusClass":  StatusClass,
		"toastClass":   ToastClass,
		"statuses":     model.ApplicationStatuses,
		"jobTypes":     model.JobTypes,
		"nav":          viewmodel.RecruiterNav,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["dict"] = dict

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// dict builds a map from alternating keys and values so a partial can take
// more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %d is not a string", i/2)
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func timeTag(t time.Time) template.HTML {
	if t.IsZero() {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(fmt.Sprintf(`<time datetime="%s">%s</time>`,
		t.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(uiutil.FormatDate(t)),
	))
}

// StatusLabel returns the display label of an application status, e.g. "Interviewed".
func StatusLabel(status model.ApplicationStatus) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StatusClass maps an application status onto a badge class.
func StatusClass(status model.ApplicationStatus) string {
	switch status {
	case model.ApplicationStatusNew:
		return "badge-info"
	case model.ApplicationStatusReviewed:
		return "badge-secondary"
	case model.ApplicationStatusShortlisted, model.ApplicationStatusInterviewed:
		return "badge-warning"
	case model.ApplicationStatusHired:
		return "badge-success"
	case model.ApplicationStatusRejected:
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// ToastClass maps a toast severity onto its CSS modifier.
func ToastClass(sev model.Severity) string {
	switch sev {
	case model.SeveritySuccess:
		return "toast-success"
	case model.SeverityError:
		return "toast-error"
	default:
		return "toast-info"
	}
}

// formatNumber renders an integer with thousands separators.
func formatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}
