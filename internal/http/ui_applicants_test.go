package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/service"
)

func sampleApplication(id, jobID, name string, at time.Time) *model.Application {
	return &model.Application{
		ID:             id,
		JobID:          jobID,
		CandidateName:  name,
		CandidateEmail: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		ResumeURL:      jobID + "/" + id + ".pdf",
		Status:         model.ApplicationStatusNew,
		CreatedAt:      at,
	}
}

func TestApplicants(t *testing.T) {
	t.Run("lists newest first", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		now := time.Now()
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(sampleJob("job-1", "user-1"), nil)
		env.apps.EXPECT().ListByJob(gomock.Any(), "job-1").Return([]*model.Application{
			sampleApplication("app-2", "job-1", "Grace Hopper", now),
			sampleApplication("app-1", "job-1", "Ada Lovelace", now.Add(-time.Hour)),
		}, nil)

		w := env.get("/applicants/job-1", cookie)

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Backend Engineer")
		assert.Less(t, strings.Index(body, "Grace Hopper"), strings.Index(body, "Ada Lovelace"))
	})

	t.Run("unknown job", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-x").Return(nil, apperrors.NotFound("no job"))

		w := env.get("/applicants/job-x", cookie)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), unknownJobTitle)
		assert.Contains(t, w.Body.String(), "No applications yet.")
		assert.Equal(t, "Job not found", env.toast())
	})
}

func postApplicationAction(env *testEnv, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	r := htmx(httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode())))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.do(r, cookie)
}

func TestToggleShortlist(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.signIn()
	app := sampleApplication("app-1", "job-1", "Ada Lovelace", time.Now())
	env.apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(app, nil)
	env.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(sampleJob("job-1", "user-1"), nil)
	env.apps.EXPECT().Update(gomock.Any(), "app-1", gomock.Any()).
		DoAndReturn(func(_ any, _ string, patch model.ApplicationPatch) (*model.Application, error) {
			require.NotNil(t, patch.IsShortlisted)
			assert.True(t, *patch.IsShortlisted)
			assert.Nil(t, patch.Status)
			updated := *app
			updated.IsShortlisted = true
			return &updated, nil
		})

	w := postApplicationAction(env, "/applications/app-1/shortlist", url.Values{"shortlisted": {"true"}}, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="app-app-1"`)
	assert.Contains(t, w.Body.String(), "Shortlisted")
	assert.Contains(t, w.Body.String(), `name="shortlisted" value="false"`)
	assert.Equal(t, "Candidate shortlisted.", env.toast())
}

func TestUpdateStatus(t *testing.T) {
	t.Run("valid status", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		app := sampleApplication("app-1", "job-1", "Ada Lovelace", time.Now())
		env.apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(app, nil)
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(sampleJob("job-1", "user-1"), nil)
		env.apps.EXPECT().Update(gomock.Any(), "app-1", gomock.Any()).
			DoAndReturn(func(_ any, _ string, patch model.ApplicationPatch) (*model.Application, error) {
				require.NotNil(t, patch.Status)
				updated := *app
				updated.Status = *patch.Status
				return &updated, nil
			})

		w := postApplicationAction(env, "/applications/app-1/status", url.Values{"status": {"interviewed"}}, cookie)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="interviewed" selected`)
		assert.Equal(t, "Status updated to Interviewed.", env.toast())
	})

	t.Run("unknown status", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()

		w := postApplicationAction(env, "/applications/app-1/status", url.Values{"status": {"bogus"}}, cookie)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, env.toast(), "Unknown application status")
	})

	t.Run("application of another recruiter", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		env.apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(sampleApplication("app-1", "job-9", "Ada Lovelace", time.Now()), nil)
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-9").Return(sampleJob("job-9", "user-42"), nil)

		w := postApplicationAction(env, "/applications/app-1/status", url.Values{"status": {"hired"}}, cookie)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "Application not found", env.toast())
	})
}

func TestResume(t *testing.T) {
	t.Run("redirects to signed url", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		app := sampleApplication("app-1", "job-1", "Ada Lovelace", time.Now())
		env.objects.Put(service.DefaultResumeBucket, app.ResumeURL, []byte("%PDF"))
		env.apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(app, nil)
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(sampleJob("job-1", "user-1"), nil)

		w := env.get("/applications/app-1/resume", cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://storage.test/resumes/job-1/app-1.pdf?ttl=3600", w.Header().Get("Location"))
	})

	t.Run("missing object", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.signIn()
		env.apps.EXPECT().GetByID(gomock.Any(), "app-1").Return(sampleApplication("app-1", "job-1", "Ada Lovelace", time.Now()), nil)
		env.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(sampleJob("job-1", "user-1"), nil)

		w := env.get("/applications/app-1/resume", cookie)

		assert.NotEqual(t, http.StatusSeeOther, w.Code)
		assert.NotEmpty(t, env.toast())
	})
}
