package application

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/middleware"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/testutil"
)

var (
	testDB *database.DBinstanceStruct
	fx     *database.Fixtures
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	testDB, fx, err = database.GetTestDB("application")
	if err != nil {
		log.Printf("failed to prepare test database: %v", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func setupRouter(ac *ApplicationController) *gin.Engine {
	r := gin.New()
	g := r.Group("/applications", middleware.RequireAuth(testDB))
	g.POST("", middleware.CheckRole(model.RoleCandidate), ac.ApplicationHandler)
	g.GET("/mine", middleware.CheckRole(model.RoleCandidate), ac.GetMyApplications)
	g.GET("/:id", ac.GetApplicationByID)
	g.PATCH("/:id/status", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), ac.UpdateStatusHandler)
	g.POST("/:id/withdraw", middleware.CheckRole(model.RoleCandidate), ac.WithdrawHandler)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

// newActiveJob creates an active posting of Recruiter1 that doesn't require a cover letter.
func newActiveJob(t *testing.T, title string) *model.JobPosting {
	t.Helper()
	job := model.NewJobPosting()
	job.CompanyID = fx.Company1.ID
	job.RecruiterID = fx.Recruiter1.ID
	job.Title = title
	job.Status = model.JobStatusActive
	job.RequiresCoverLetter = false
	require.NoError(t, testDB.Create(job).Error)
	return job
}

func TestApplicationHandler(t *testing.T) {
	r := setupRouter(NewApplicationController(testDB))
	tok := token(t, fx.Candidate2.Username)

	t.Run("Submit", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{
			"job_id":       fx.OtherJob.ID,
			"cover_letter": "I enjoy making sense of data.",
		}, tok, r, "/applications", http.MethodPost)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, model.ApplicationStatusSubmitted, resp["status"])
		assert.NotNil(t, resp["submitted_at"])
		assert.Equal(t, fx.Candidate2.ID.String(), resp["candidate_id"])
	})

	t.Run("Duplicate rejected", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{
			"job_id":       fx.OtherJob.ID,
			"cover_letter": "Trying again.",
		}, tok, r, "/applications", http.MethodPost)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "You have already applied to this job posting", resp["error"])
	})

	t.Run("Draft job is closed", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{
			"job_id":       fx.DraftJob.ID,
			"cover_letter": "Hello",
		}, tok, r, "/applications", http.MethodPost)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "This job posting is not accepting applications", resp["error"])
	})

	t.Run("Cover letter required", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": fx.ActiveJob.ID}, tok, r, "/applications", http.MethodPost)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "This job posting requires a cover letter", resp["error"])
	})

	t.Run("Draft application skips cover letter and submitted_at", func(t *testing.T) {
		job := newActiveJob(t, "Draftable role")
		rec, resp := testutil.MakeJSONRequest(gin.H{
			"job_id": job.ID,
			"status": model.ApplicationStatusDraft,
		}, tok, r, "/applications", http.MethodPost)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, model.ApplicationStatusDraft, resp["status"])
		assert.Nil(t, resp["submitted_at"])
	})

	t.Run("Unknown job", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": 987654}, tok, r, "/applications", http.MethodPost)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Invalid initial status", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": fx.ActiveJob.ID, "status": model.ApplicationStatusOffer}, tok, r, "/applications", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Recruiter forbidden", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": fx.ActiveJob.ID}, token(t, fx.Recruiter1.Username), r, "/applications", http.MethodPost)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestApplicationHandler_DeadlinePassed(t *testing.T) {
	job := newActiveJob(t, "Deadline role")
	deadline := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, testDB.Model(job).Update("application_deadline", deadline).Error)

	ac := NewApplicationController(testDB)
	r := setupRouter(ac)
	tok := token(t, fx.Candidate2.Username)

	ac.Now = func() time.Time { return deadline.Add(36 * time.Hour) }
	rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": job.ID}, tok, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ac.Now = func() time.Time { return deadline.Add(12 * time.Hour) }
	rec, _ = testutil.MakeJSONRequest(gin.H{"job_id": job.ID}, tok, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "the deadline day itself is still open")
}

func TestGetMyApplications(t *testing.T) {
	r := setupRouter(NewApplicationController(testDB))

	rec, resp := testutil.MakeJSONListRequest(nil, token(t, fx.Candidate1.Username), r, "/applications/mine", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, resp, 1)
	assert.Equal(t, float64(fx.Application1.ID), resp[0]["id"])
	job := resp[0]["job"].(map[string]interface{})
	assert.Equal(t, fx.ActiveJob.Title, job["title"])
}

func TestGetApplicationByID(t *testing.T) {
	r := setupRouter(NewApplicationController(testDB))
	endpoint := fmt.Sprintf("/applications/%d", fx.Application1.ID)

	for _, username := range []string{fx.Candidate1.Username, fx.Recruiter1.Username, fx.Admin.Username} {
		rec, _ := testutil.MakeJSONRequest(nil, token(t, username), r, endpoint, http.MethodGet)
		assert.Equal(t, http.StatusOK, rec.Code, username)
	}
	for _, username := range []string{fx.Candidate2.Username, fx.Recruiter2.Username} {
		rec, _ := testutil.MakeJSONRequest(nil, token(t, username), r, endpoint, http.MethodGet)
		assert.Equal(t, http.StatusForbidden, rec.Code, username)
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	job := newActiveJob(t, "Status role")
	app := model.NewApplication(fx.Candidate1.ID, job.ID)
	require.NoError(t, testDB.Create(app).Error)

	r := setupRouter(NewApplicationController(testDB))
	endpoint := fmt.Sprintf("/applications/%d/status", app.ID)

	rec, _ := testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusScreening}, token(t, fx.Recruiter2.Username), r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"status": "hired"}, token(t, fx.Recruiter1.Username), r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusSubmitted}, token(t, fx.Recruiter1.Username), r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	submittedAt, err := time.Parse(time.RFC3339Nano, resp["submitted_at"].(string))
	require.NoError(t, err)

	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusOffer}, token(t, fx.Recruiter1.Username), r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ApplicationStatusOffer, resp["status"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusSubmitted}, token(t, fx.Admin.Username), r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, "status may move back")
	again, err := time.Parse(time.RFC3339Nano, resp["submitted_at"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, submittedAt, again, time.Millisecond, "submitted_at is only stamped once")
}

func TestWithdrawHandler(t *testing.T) {
	job := newActiveJob(t, "Withdraw role")
	app := model.NewApplication(fx.Candidate1.ID, job.ID)
	require.NoError(t, testDB.Create(app).Error)

	r := setupRouter(NewApplicationController(testDB))
	endpoint := fmt.Sprintf("/applications/%d/withdraw", app.ID)

	rec, _ := testutil.MakeJSONRequest(nil, token(t, fx.Candidate2.Username), r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, fx.Candidate1.Username), r, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.ApplicationStatusWithdrawn, resp["status"])

	rec, _ = testutil.MakeJSONRequest(nil, token(t, fx.Candidate1.Username), r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
