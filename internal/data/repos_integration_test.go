package data

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/navix1456/recruiter-platform/internal/domain/model"
	apperrors "github.com/navix1456/recruiter-platform/internal/errors"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"github.com/navix1456/recruiter-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSigner struct{}

func (stubSigner) ObjectURL(bucket, key string, ttl time.Duration) string {
	return "/objects/" + bucket + "/" + key + "?ttl=" + ttl.String()
}

func TestJobRepo_Integration(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewJobRepo(db, tp)
		owner := testutil.SeedRecruiter(t, db, "owner@example.com")
		other := testutil.SeedRecruiter(t, db, "other@example.com")

		first, err := repo.Create(ctx, model.JobInsert{
			JobInput:    model.JobInput{Title: "First", Description: "d", JobType: model.JobTypeContract},
			RecruiterID: owner,
		})
		require.NoError(t, err)
		assert.Equal(t, owner, first.RecruiterID)
		assert.Equal(t, model.JobTypeContract, first.JobType)

		tp.AddTime(time.Minute)
		second, err := repo.Create(ctx, model.JobInsert{
			JobInput:    model.JobInput{Title: "Second", Description: "d", JobType: model.JobTypeFullTime},
			RecruiterID: owner,
		})
		require.NoError(t, err)

		jobs, err := repo.ListByRecruiter(ctx, owner)
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, second.ID, jobs[0].ID, "newest first")

		mine, err := repo.ListByRecruiter(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, mine)

		title := "Renamed"
		updated, err := repo.Update(ctx, first.ID, owner, model.JobPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, owner, updated.RecruiterID)

		_, err = repo.Update(ctx, first.ID, other, model.JobPatch{Title: &title})
		assert.True(t, apperrors.IsNotFound(err), "foreign recruiter cannot update")

		assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, first.ID, other)))
		require.NoError(t, repo.Delete(ctx, first.ID, owner))

		_, err = repo.GetByID(ctx, first.ID)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestApplicationRepo_Integration(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewApplicationRepo(db, tp)
		jobs := NewJobRepo(db, tp)
		owner := testutil.SeedRecruiter(t, db, "owner@example.com")
		jobA := testutil.SeedJob(t, db, owner, "A")
		jobB := testutil.SeedJob(t, db, owner, "B")

		var ids []string
		for i, name := range []string{"Ada", "Grace", "Linus"} {
			tp.AddTime(time.Second)
			jobID := jobA
			if i == 2 {
				jobID = jobB
			}
			app, err := repo.Create(ctx, model.ApplicationInsert{
				JobID:          jobID,
				CandidateName:  name,
				CandidateEmail: strings.ToLower(name) + "@example.com",
				ResumeURL:      model.ResumeKey(jobID, name+".pdf"),
			})
			require.NoError(t, err)
			assert.Equal(t, model.ApplicationStatusNew, app.Status)
			assert.False(t, app.IsShortlisted)
			ids = append(ids, app.ID)
		}

		list, err := repo.ListByJob(ctx, jobA)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ids[1], list[0].ID, "newest first")

		counts, err := repo.CountByJobs(ctx, []string{jobA, jobB})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{jobA: 2, jobB: 1}, counts)

		yes := true
		status := model.ApplicationStatusInterviewed
		updated, err := repo.Update(ctx, ids[0], model.ApplicationPatch{IsShortlisted: &yes, Status: &status})
		require.NoError(t, err)
		assert.True(t, updated.IsShortlisted)
		assert.Equal(t, status, updated.Status)

		bad := model.ApplicationStatus("bogus")
		_, err = repo.Update(ctx, ids[0], model.ApplicationPatch{Status: &bad})
		assert.True(t, apperrors.IsValidation(err))

		keys, err := repo.ResumeKeysByJob(ctx, jobA)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{jobA + "/Ada.pdf", jobA + "/Grace.pdf"}, keys)

		_, err = repo.Create(ctx, model.ApplicationInsert{
			JobID: "00000000-0000-0000-0000-000000000000", CandidateName: "x", CandidateEmail: "x@example.com", ResumeURL: "k",
		})
		assert.True(t, apperrors.IsForeignKey(err))

		require.NoError(t, jobs.Delete(ctx, jobA, owner))
		list, err = repo.ListByJob(ctx, jobA)
		require.NoError(t, err)
		assert.Empty(t, list, "applications cascade with their job")
	})
}

func TestRecruiterRepo_Integration(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewRecruiterRepo(db)

		rec, err := repo.Create(ctx, "rec@example.com", "hash")
		require.NoError(t, err)

		byEmail, err := repo.GetByEmail(ctx, "rec@example.com")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		_, err = repo.Create(ctx, "rec@example.com", "other")
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "email", apperrors.GetField(err))

		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestObjectRepo_Integration(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewObjectRepo(db, ObjectRepoOptions{Signer: stubSigner{}, BaseURL: "http://localhost:8080/", MaxBytes: 16})

		upload := func(key, body string, overwrite bool) error {
			_, err := repo.Upload(ctx, ports.UploadInput{
				Bucket: "resumes", Key: key, ContentType: "application/pdf",
				Body: strings.NewReader(body), Size: int64(len(body)), Overwrite: overwrite,
			})
			return err
		}

		require.NoError(t, upload("job/cv.pdf", "v1", false))
		require.ErrorIs(t, upload("job/cv.pdf", "v2", false), ports.ErrObjectExists)

		obj, err := repo.Get(ctx, "resumes", "job/cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(obj.Body), "failed upload leaves the original")

		require.NoError(t, upload("job/cv.pdf", "v3", true))
		obj, err = repo.Get(ctx, "resumes", "job/cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, "v3", string(obj.Body))

		assert.True(t, apperrors.IsValidation(upload("job/big.pdf", strings.Repeat("x", 17), false)))

		link, err := repo.SignedURL(ctx, "resumes", "job/cv.pdf", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/objects/resumes/job/cv.pdf?ttl=1h0m0s", link)

		require.NoError(t, repo.Remove(ctx, "resumes", []string{"job/cv.pdf", "job/missing.pdf"}))
		_, err = repo.Get(ctx, "resumes", "job/cv.pdf")
		require.ErrorIs(t, err, ports.ErrObjectNotFound)

		_, err = repo.SignedURL(ctx, "resumes", "job/cv.pdf", time.Hour)
		require.ErrorIs(t, err, ports.ErrObjectNotFound)
	})
}
