package company

import (
	"fmt"
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
	testDB, fx, err = database.GetTestDB("company")
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
	cc := NewCompanyController(testDB)
	g := r.Group("/companies", middleware.RequireAuth(testDB))
	g.GET("", cc.GetCompanies)
	g.GET("/:id", cc.GetCompanyByID)
	g.POST("", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), cc.CreateCompany)
	g.PATCH("/:id", middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin), cc.EditCompany)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestGetCompanies(t *testing.T) {
	tok := token(t, fx.Candidate1.Username)
	r := setupRouter()

	rec, resp := testutil.MakeJSONListRequest(nil, tok, r, "/companies?search=nova", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, resp, 1)
	assert.Equal(t, fx.Company1.Name, resp[0]["name"])

	rec, resp = testutil.MakeJSONListRequest(nil, tok, r, "/companies?size="+model.CompanySize11To50, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, company := range resp {
		assert.Equal(t, model.CompanySize11To50, company["size"])
	}
}

func TestGetCompanyByID(t *testing.T) {
	tok := token(t, fx.Candidate1.Username)
	r := setupRouter()

	rec, resp := testutil.MakeJSONRequest(nil, tok, r, fmt.Sprintf("/companies/%d", fx.Company1.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fx.Company1.Name, resp["name"])

	postings, ok := resp["job_postings"].([]interface{})
	require.True(t, ok)
	assert.Len(t, postings, 1, "draft postings are hidden")

	rec, _ = testutil.MakeJSONRequest(nil, tok, r, "/companies/99999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, tok, r, "/companies/abc", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCompany(t *testing.T) {
	r := setupRouter()

	t.Run("Recruiter creates company", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{
			"name":     "Acme Robotics",
			"industry": "Hardware",
			"size":     model.CompanySize201To500,
			"website":  "https://acme.example.com",
		}, token(t, fx.Recruiter1.Username), r, "/companies", http.MethodPost)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Acme Robotics", resp["name"])
		assert.NotZero(t, resp["id"])
	})

	t.Run("Invalid size", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"name": "Odd Size Inc",
			"size": "2-3",
		}, token(t, fx.Admin.Username), r, "/companies", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing name", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"industry": "Nothing"}, token(t, fx.Admin.Username), r, "/companies", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Candidate forbidden", func(t *testing.T) {
		rec, resp := testutil.MakeJSONRequest(gin.H{"name": "Malicious"}, token(t, fx.Candidate1.Username), r, "/companies", http.MethodPost)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, resp["error"], "permission")
	})
}

func TestEditCompany(t *testing.T) {
	r := setupRouter()
	endpoint := fmt.Sprintf("/companies/%d", fx.Company2.ID)

	rec, resp := testutil.MakeJSONRequest(gin.H{"location": "Berlin"}, token(t, fx.Recruiter2.Username), r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Berlin", resp["location"])
	assert.Equal(t, fx.Company2.Name, resp["name"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"id": 12345}, token(t, fx.Recruiter2.Username), r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"location": "Paris"}, token(t, fx.Candidate2.Username), r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
