package httpx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/mocks"
	authmocks "github.com/navix1456/recruiter-platform/internal/mocks/auth"
	storagemocks "github.com/navix1456/recruiter-platform/internal/mocks/storage"
	"github.com/navix1456/recruiter-platform/internal/service"
)

const (
	testCSRFToken = "test-csrf-token"
	testClientID  = "0123456789abcdef0123456789abcdef"
	testEmail     = "recruiter@example.com"
	testPassword  = "secret1"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the
// test when the templates directory is not reachable.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the real router and services over in-memory identity and
// storage, with gomock repositories.
type testEnv struct {
	t        *testing.T
	handler  http.Handler
	identity *authmocks.MockIdentity
	sessions *authmocks.MemorySessionStore
	auth     *service.AuthService
	jobs     *mocks.MockJobRepository
	apps     *mocks.MockApplicationRepository
	objects  *storagemocks.MemoryObjectStore
	toasts   *service.Toaster
}

const testAnalyzerURL = "https://analyzer.example.com/upload"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSSO(t, nil)
}

// newTestEnvWithSSO enables single sign-on through provider, linking
// identities into the in-memory identity backend.
func newTestEnvWithSSO(t *testing.T, provider *authmocks.MockAuthProvider) *testEnv {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}

	ctrl := gomock.NewController(t)
	env := &testEnv{
		t:        t,
		identity: authmocks.NewMockIdentity(),
		sessions: authmocks.NewMemorySessionStore(),
		jobs:     mocks.NewMockJobRepository(ctrl),
		apps:     mocks.NewMockApplicationRepository(ctrl),
		objects:  storagemocks.NewMemoryObjectStore(),
		toasts:   service.NewToaster(service.ToasterOptions{}),
	}
	logger := discardLogger()
	var sso service.SSOOptions
	if provider != nil {
		sso = service.SSOOptions{Provider: provider, Linker: env.identity}
	}
	env.auth = service.NewAuthService(service.AuthServiceOptions{
		Identity: env.identity,
		Sessions: env.sessions,
		Config:   service.AuthServiceConfig{SSO: sso, Logger: logger},
	})

	handler, err := NewRouter(RouterServices{
		Auth: env.auth,
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:         env.jobs,
			Applications: env.apps,
			Config:       service.JobServiceConfig{Objects: env.objects, BaseURL: "https://jobs.example.com", Logger: logger},
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Jobs:         env.jobs,
			Applications: env.apps,
			Storage:      service.ApplicationStorage{Objects: env.objects, Logger: logger},
		}),
		Submissions: service.NewSubmissionService(service.SubmissionServiceOptions{
			Applications: env.apps,
			Objects:      env.objects,
			Config:       service.SubmissionConfig{Logger: logger},
		}),
		Toasts: env.toasts,
		Options: RouterOptions{
			Backend:           "test",
			MaxUploadBytes:    1 << 20,
			ResumeAnalyzerURL: testAnalyzerURL,
			TemplateFS:        os.DirFS(TemplatePathFromTest),
		},
		Logger: logger,
	})
	require.NoError(t, err)
	env.handler = handler
	return env
}

// signIn registers the test recruiter and returns their session cookie.
func (e *testEnv) signIn() (*http.Cookie, domainauth.Session) {
	e.t.Helper()
	e.identity.AddUser(testEmail, testPassword)
	sess, err := e.auth.SignIn(context.Background(), domainauth.Credentials{Email: testEmail, Password: testPassword})
	require.NoError(e.t, err)
	return &http.Cookie{Name: sessionCookieName, Value: sess.ID}, sess
}

// get issues a browser GET.
func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("Accept", "text/html")
	return e.do(r, cookies...)
}

// post issues a urlencoded form POST carrying a valid CSRF token.
func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	return e.do(r, cookies...)
}

// postMultipart issues a multipart POST with a single file part.
func (e *testEnv) postMultipart(path string, fields map[string]string, file multipartFile) *httptest.ResponseRecorder {
	e.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if file.Field != "" {
		part, err := mw.CreateFormFile(file.Field, file.Name)
		require.NoError(e.t, err)
		_, err = part.Write(file.Content)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, path, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	r.Header.Set("Accept", "text/html")
	return e.do(r)
}

type multipartFile struct {
	Field   string
	Name    string
	Content []byte
}

func (e *testEnv) do(r *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	r.AddCookie(&http.Cookie{Name: clientCookieName, Value: testClientID})
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

// toast returns the message currently shown to the test browser.
func (e *testEnv) toast() string {
	t, ok := e.toasts.Current(testClientID)
	if !ok {
		return ""
	}
	return t.Message
}

func htmx(r *http.Request) *http.Request {
	r.Header.Set("Hx-Request", "true")
	return r
}

// responseCookie finds a Set-Cookie by name.
func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
