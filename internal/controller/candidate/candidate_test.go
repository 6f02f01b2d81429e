package candidate

import (
	"log"
	"net/http"
	"os"
	"testing"

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
	testDB, fx, err = database.GetTestDB("candidate")
	if err != nil {
		log.Printf("failed to prepare test database: %v", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func setupRouter() *gin.Engine {
	r := gin.New()
	cc := NewCandidateController(testDB)
	g := r.Group("/candidate", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleCandidate))
	g.GET("/profile", cc.GetProfile)
	g.PUT("/profile", cc.PutProfile)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestGetProfile(t *testing.T) {
	r := setupRouter()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, fx.Candidate1.Username), r, "/candidate/profile", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fx.Profile1.CurrentTitle, resp["current_title"])
	assert.ElementsMatch(t, []interface{}{"Go", "PostgreSQL"}, resp["skills"])

	rec, _ = testutil.MakeJSONRequest(nil, token(t, fx.Recruiter1.Username), r, "/candidate/profile", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPutProfile_CreateThenReplace(t *testing.T) {
	r := setupRouter()
	tok := token(t, fx.Candidate2.Username)

	rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/candidate/profile", http.MethodGet)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"current_title":       "Data Engineer",
		"years_of_experience": 3,
		"skills":              []string{"Python", "Spark"},
		"languages":           []gin.H{{"language": "English", "proficiency": "native"}},
		"remote_preference":   model.RemotePreferenceRemote,
		"willing_to_relocate": true,
	}, tok, r, "/candidate/profile", http.MethodPut)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Data Engineer", resp["current_title"])
	assert.Equal(t, model.RemotePreferenceRemote, resp["remote_preference"])
	firstID := resp["id"]

	rec, resp = testutil.MakeJSONRequest(gin.H{
		"current_title": "Senior Data Engineer",
	}, tok, r, "/candidate/profile", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, firstID, resp["id"])
	assert.Equal(t, "Senior Data Engineer", resp["current_title"])
	assert.Equal(t, model.RemotePreferenceFlexible, resp["remote_preference"], "omitted fields are reset")
	assert.Empty(t, resp["skills"])

	var count int64
	require.NoError(t, testDB.Model(&model.CandidateProfile{}).Where("user_id = ?", fx.Candidate2.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPutProfile_Invalid(t *testing.T) {
	r := setupRouter()
	tok := token(t, fx.Candidate1.Username)

	cases := []struct {
		name string
		body gin.H
	}{
		{"Unknown remote preference", gin.H{"remote_preference": "mars"}},
		{"Salary range inverted", gin.H{"salary_expectation_min": 90000, "salary_expectation_max": 50000}},
		{"Unknown field", gin.H{"user_id": fx.Candidate2.ID.String()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := testutil.MakeJSONRequest(tc.body, tok, r, "/candidate/profile", http.MethodPut)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	stored := model.CandidateProfile{}
	require.NoError(t, testDB.Where("user_id = ?", fx.Candidate1.ID).First(&stored).Error)
	assert.Equal(t, fx.Profile1.CurrentTitle, stored.CurrentTitle)
}
