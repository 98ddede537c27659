// Package supabase implements the remote service boundary against a hosted
// Supabase project: GoTrue for identity, PostgREST for rows and the Storage
// API for résumé objects.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
)

// Error bodies differ per Supabase service. PostgREST sends {code, message,
// details, hint}, GoTrue sends {error, error_description} or {code, msg},
// and Storage sends {statusCode, error, message}.
const (
	messageExpr = "message || error_description || msg || error"
	codeExpr    = "error_code || code || statusCode"
)

// Config configures a Client.
type Config struct {
	URL        string
	Key        string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional
	Logger     *slog.Logger
}

// Client performs authenticated calls against a Supabase project.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a Client. URL and Key are required.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.New("supabase url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parse supabase url: %w", err)
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, errors.New("supabase key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		key:     cfg.Key,
		http:    hc,
		logger:  logger.With("component", "supabase"),
	}, nil
}

// BaseURL returns the project URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx response from any Supabase service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase %d: %s", e.Status, e.Message)
}

// request describes a single call. token overrides the bearer token; when
// empty the session token from ctx is used, falling back to the project key.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	jsonBody    any
	contentType string
	size        int64
	headers     map[string]string
	token       string
}

func (c *Client) bearer(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if tok := domainauth.AccessToken(ctx); tok != "" {
		return tok
	}
	return c.key
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	body := r.body
	contentType := r.contentType
	if r.jsonBody != nil {
		buf, err := json.Marshal(r.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if r.size > 0 {
		req.ContentLength = r.size
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.bearer(ctx, r.token))
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// do executes r and decodes a JSON success body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("supabase %s %s: %w", r.method, r.path, err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("close response body", "error", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read supabase response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.logger.Debug("supabase call failed",
			"method", r.method,
			"path", r.path,
			"status", apiErr.Status,
			"code", apiErr.Code)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Message = searchString(messageExpr, body)
	apiErr.Code = searchString(codeExpr, body)
	if m, ok := body.(map[string]any); ok {
		if d, ok := m["details"].(string); ok {
			apiErr.Details = d
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func searchString(expr string, data any) string {
	v, err := jmespath.Search(expr, data)
	if err != nil || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}

// isSQLState reports whether code looks like a five character SQLSTATE.
func isSQLState(code string) bool {
	if len(code) != 5 {
		return false
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// mapRowError converts a PostgREST failure into the shared AppError taxonomy.
func mapRowError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == "PGRST116":
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Resource not found")
	case isSQLState(apiErr.Code):
		return apperrors.MapSQLFault(apperrors.SQLFault{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Detail:  apiErr.Details,
			Cause:   apiErr,
		})
	case apiErr.Status == http.StatusUnauthorized:
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, apiErr.Message)
	case apiErr.Status == http.StatusForbidden:
		return apperrors.Wrap(err, apperrors.ErrCodeForbidden, apiErr.Message)
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeRemote, apiErr.Message)
	}
}
