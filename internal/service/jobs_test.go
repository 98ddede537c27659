package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/mocks"
	storagemocks "github.com/navix1456/recruiter-platform/internal/mocks/storage"
)

var (
	owner    = domainauth.Session{ID: "s1", UserID: "rec-1", Email: "owner@example.com"}
	stranger = domainauth.Session{ID: "s2", UserID: "rec-2", Email: "other@example.com"}
)

type jobFixture struct {
	svc     *JobService
	jobs    *mocks.MockJobRepository
	apps    *mocks.MockApplicationRepository
	objects *storagemocks.MemoryObjectStore
}

func newJobFixture(t *testing.T) jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	apps := mocks.NewMockApplicationRepository(ctrl)
	objects := storagemocks.NewMemoryObjectStore()
	svc := NewJobService(JobServiceOptions{
		Jobs:         jobs,
		Applications: apps,
		Config:       JobServiceConfig{Objects: objects, Bucket: "resumes", BaseURL: "https://jobs.example.com/"},
	})
	return jobFixture{svc: svc, jobs: jobs, apps: apps, objects: objects}
}

func ownedJob(id string) *model.Job {
	return &model.Job{ID: id, Title: "Engineer", Description: "Build things", JobType: model.JobTypeFullTime, RecruiterID: "rec-1"}
}

func TestJobService_Create(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().Create(gomock.Any(), model.JobInsert{
		JobInput: model.JobInput{
			Title:       "Engineer",
			Description: "Build things",
			Location:    "Remote",
			JobType:     model.JobTypeFullTime,
		},
		RecruiterID: "rec-1",
	}).Return(ownedJob("job-1"), nil)

	job, err := f.svc.Create(context.Background(), owner, model.JobInput{
		Title:       "  Engineer ",
		Description: "Build things",
		Location:    " Remote",
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
}

func TestJobService_Create_Validation(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.Create(context.Background(), owner, model.JobInput{Description: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "title", apperrors.GetField(err))

	_, err = f.svc.Create(context.Background(), owner, model.JobInput{Title: "x", Description: "y", JobType: "gig"})
	assert.Equal(t, "job_type", apperrors.GetField(err))
}

func TestJobService_RequiresSession(t *testing.T) {
	f := newJobFixture(t)
	_, err := f.svc.Create(context.Background(), domainauth.Session{}, model.JobInput{Title: "t", Description: "d"})
	assert.True(t, apperrors.IsUnauthorized(err))
	_, err = f.svc.ListMine(context.Background(), domainauth.Session{})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestJobService_Get_OwnerScoped(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil).Times(2)

	job, err := f.svc.Get(context.Background(), owner, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", job.Title)

	_, err = f.svc.Get(context.Background(), stranger, "job-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Job not found", apperrors.UserMessage(err))
}

func TestJobService_GetPublic(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil)
	f.jobs.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, apperrors.NotFound("job not found"))

	job, err := f.svc.GetPublic(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)

	_, err = f.svc.GetPublic(context.Background(), "missing")
	assert.Equal(t, "Job not found", apperrors.UserMessage(err))

	_, err = f.svc.GetPublic(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobService_Update_NeverPatchesOwner(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().Update(gomock.Any(), "job-1", "rec-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ string, patch model.JobPatch) (*model.Job, error) {
			require.NotNil(t, patch.Title)
			assert.Equal(t, "Senior Engineer", *patch.Title)
			require.NotNil(t, patch.JobType)
			assert.Equal(t, model.JobTypeContract, *patch.JobType)
			job := ownedJob("job-1")
			job.Title = *patch.Title
			return job, nil
		})

	job, err := f.svc.Update(context.Background(), owner, "job-1", model.JobInput{
		Title:       "Senior Engineer",
		Description: "Build more things",
		JobType:     "Contract",
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", job.RecruiterID)
}

func TestJobService_Update_OtherOwnerReadsNotFound(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().Update(gomock.Any(), "job-1", "rec-2", gomock.Any()).Return(nil, apperrors.NotFound("job not found"))

	_, err := f.svc.Update(context.Background(), stranger, "job-1", model.JobInput{Title: "t", Description: "d"})
	assert.Equal(t, "Job not found", apperrors.UserMessage(err))
}

func TestJobService_Delete_RemovesResumesAfterRow(t *testing.T) {
	f := newJobFixture(t)
	f.objects.Put("resumes", "job-1/a.pdf", []byte("a"))
	f.objects.Put("resumes", "job-1/b.pdf", []byte("b"))

	gomock.InOrder(
		f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil),
		f.apps.EXPECT().ResumeKeysByJob(gomock.Any(), "job-1").Return([]string{"job-1/a.pdf", "job-1/b.pdf"}, nil),
		f.jobs.EXPECT().Delete(gomock.Any(), "job-1", "rec-1").Return(nil),
	)

	require.NoError(t, f.svc.Delete(context.Background(), owner, "job-1"))
	require.Len(t, f.objects.RemoveCalls, 1)
	assert.Equal(t, 0, f.objects.Len())
}

func TestJobService_Delete_RemoveFailureIsLogged(t *testing.T) {
	f := newJobFixture(t)
	f.objects.RemoveErr = errors.New("storage down")
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil)
	f.apps.EXPECT().ResumeKeysByJob(gomock.Any(), "job-1").Return([]string{"job-1/a.pdf"}, nil)
	f.jobs.EXPECT().Delete(gomock.Any(), "job-1", "rec-1").Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), owner, "job-1"))
}

func TestJobService_Delete_RowFailureKeepsObjects(t *testing.T) {
	f := newJobFixture(t)
	f.objects.Put("resumes", "job-1/a.pdf", []byte("a"))
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil)
	f.apps.EXPECT().ResumeKeysByJob(gomock.Any(), "job-1").Return([]string{"job-1/a.pdf"}, nil)
	f.jobs.EXPECT().Delete(gomock.Any(), "job-1", "rec-1").Return(errors.New("db down"))

	err := f.svc.Delete(context.Background(), owner, "job-1")
	require.Error(t, err)
	assert.Empty(t, f.objects.RemoveCalls)
	assert.Equal(t, 1, f.objects.Len())
}

func TestJobService_Delete_ForeignJob(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(ownedJob("job-1"), nil)

	err := f.svc.Delete(context.Background(), stranger, "job-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobService_Links(t *testing.T) {
	f := newJobFixture(t)
	assert.Equal(t, "https://jobs.example.com/jobs/job-1", f.svc.ShareURL("job-1"))
	assert.Equal(t, "https://jobs.example.com/apply/job-1", f.svc.ApplyURL("job-1"))
}

func TestJobService_Dashboard(t *testing.T) {
	f := newJobFixture(t)
	jobs := []*model.Job{ownedJob("job-2"), ownedJob("job-1")}
	f.jobs.EXPECT().ListByRecruiter(gomock.Any(), "rec-1").Return(jobs, nil)
	f.apps.EXPECT().CountByJobs(gomock.Any(), []string{"job-2", "job-1"}).Return(map[string]int{"job-2": 3, "job-1": 1}, nil)

	dash, err := f.svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", dash.Email)
	assert.Equal(t, 2, dash.JobCount)
	assert.Equal(t, 4, dash.ApplicantCount)
	assert.True(t, dash.CountsAvailable)
	require.Len(t, dash.Recent, 2)
	assert.Equal(t, 3, dash.Recent[0].Applicants)
}

func TestJobService_Dashboard_CountFailureDegrades(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().ListByRecruiter(gomock.Any(), "rec-1").Return([]*model.Job{ownedJob("job-1")}, nil)
	f.apps.EXPECT().CountByJobs(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	dash, err := f.svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.JobCount)
	assert.Equal(t, 0, dash.ApplicantCount)
	assert.False(t, dash.CountsAvailable)
}

func TestJobService_Dashboard_NoJobs(t *testing.T) {
	f := newJobFixture(t)
	f.jobs.EXPECT().ListByRecruiter(gomock.Any(), "rec-1").Return(nil, nil)

	dash, err := f.svc.Dashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, dash.JobCount)
	assert.True(t, dash.CountsAvailable)
}
