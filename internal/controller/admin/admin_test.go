package admin

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micdr93/yardly/internal/auth"
	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/middleware"
	"github.com/micdr93/yardly/internal/model"
	"github.com/micdr93/yardly/internal/testutil"
	"github.com/micdr93/yardly/internal/utilities"
)

var (
	testDB *database.DBinstanceStruct
	fx     *database.Fixtures
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	testDB, fx, err = database.GetTestDB("admin")
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
	ac := NewAdminController(testDB)
	admin := r.Group("/admin", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleAdmin))
	admin.GET("", ac.GetResources)
	admin.GET("/:resource", ac.ListRecords)
	admin.POST("/:resource", ac.CreateRecord)
	admin.GET("/:resource/:id", ac.GetRecord)
	admin.PATCH("/:resource/:id", ac.UpdateRecord)
	admin.DELETE("/:resource/:id", ac.DeleteRecord)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, fx.Admin.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func TestRegistryCoversEveryModel(t *testing.T) {
	assert.Len(t, registry, len(model.MigrateAble))
	assert.Len(t, resourceNames, len(model.MigrateAble))
}

func TestGetResources(t *testing.T) {
	r := setupRouter()

	rec, res := testutil.MakeJSONRequest(nil, adminToken(t), r, "/admin", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	names, ok := res["resources"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, names, "users")
	assert.Contains(t, names, "privacy-logs")
}

func TestAdminOnly(t *testing.T) {
	r := setupRouter()
	tok, err := auth.GetAccessToken(t, testDB, fx.Recruiter1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListRecords(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	t.Run("unknown resource", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/widgets", http.MethodGet)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("every resource lists", func(t *testing.T) {
		for _, name := range resourceNames {
			rec, _ := testutil.MakeJSONListRequest(nil, tok, r, "/admin/"+name, http.MethodGet)
			assert.Equal(t, http.StatusOK, rec.Code, name)
		}
	})

	t.Run("search own column", func(t *testing.T) {
		rec, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/companies?search=nova", http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, list, 1)
		assert.Equal(t, fx.Company1.Name, list[0]["name"])
	})

	t.Run("search wildcards are literal", func(t *testing.T) {
		for _, term := range []string{"tech%25", "t_chnova", "%25"} {
			rec, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/companies?search="+term, http.MethodGet)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, list, term)
		}
	})

	t.Run("search related column", func(t *testing.T) {
		rec, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/job-postings?search=dataforge", http.MethodGet)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, list, 1)
		assert.Equal(t, fx.OtherJob.Title, list[0]["title"])

		_, list = testutil.MakeJSONListRequest(nil, tok, r, "/admin/applications?search=candidate_1", http.MethodGet)
		require.Len(t, list, 1)
		assert.EqualValues(t, fx.Application1.ID, list[0]["id"])
	})

	t.Run("filters", func(t *testing.T) {
		_, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/job-postings?status=draft", http.MethodGet)
		require.Len(t, list, 1)
		assert.Equal(t, fx.DraftJob.Title, list[0]["title"])

		_, list = testutil.MakeJSONListRequest(nil, tok, r, "/admin/users?user_type=recruiter", http.MethodGet)
		assert.Len(t, list, 2)

		_, list = testutil.MakeJSONListRequest(nil, tok, r, "/admin/users?is_staff=true", http.MethodGet)
		require.Len(t, list, 1)
		assert.Equal(t, fx.Admin.Username, list[0]["username"])
	})

	t.Run("unknown query parameters are ignored", func(t *testing.T) {
		_, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/companies?password=x", http.MethodGet)
		assert.Len(t, list, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		_, list := testutil.MakeJSONListRequest(nil, tok, r, "/admin/companies?limit=1&offset=1", http.MethodGet)
		require.Len(t, list, 1)
		assert.Equal(t, fx.Company1.Name, list[0]["name"])
	})
}

func TestGetRecord(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	rec, res := testutil.MakeJSONRequest(nil, tok, r, "/admin/users/"+fx.Candidate1.ID.String(), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fx.Candidate1.Username, res["username"])
	assert.NotContains(t, res, "password")

	rec, res = testutil.MakeJSONRequest(nil, tok, r, fmt.Sprintf("/admin/companies/%d", fx.Company2.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fx.Company2.Name, res["name"])

	t.Run("user id must be a uuid", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/users/12", http.MethodGet)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("integer id", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/companies/abc", http.MethodGet)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/users/"+uuid.NewString(), http.MethodGet)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreateUser(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	rec, res := testutil.MakeJSONRequest(gin.H{
		"username":   "new_recruiter",
		"password":   "longenough",
		"user_type":  model.RoleRecruiter,
		"email":      "new_recruiter@example.com",
		"first_name": "Nia",
	}, tok, r, "/admin/users", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleRecruiter, res["user_type"])
	assert.Equal(t, true, res["is_active"])
	assert.NotContains(t, res, "password")

	stored := model.User{}
	require.NoError(t, testDB.Preload("Preferences").Where("username = ?", "new_recruiter").First(&stored).Error)
	assert.True(t, utilities.VerifyPassword("longenough", stored.Password))
	require.NotNil(t, stored.Preferences)

	t.Run("short password", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"username":  "short_pw",
			"password":  "short",
			"user_type": model.RoleCandidate,
		}, tok, r, "/admin/users", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"username":  "new_recruiter",
			"password":  "longenough",
			"user_type": model.RoleCandidate,
		}, tok, r, "/admin/users", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"username":  "wizard",
			"password":  "longenough",
			"user_type": "wizard",
		}, tok, r, "/admin/users", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRecord(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	rec, res := testutil.MakeJSONRequest(gin.H{
		"name":     "Quantum Labs",
		"industry": "Research",
		"size":     model.CompanySize1To10,
	}, tok, r, "/admin/companies", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Quantum Labs", res["name"])

	t.Run("model defaults apply", func(t *testing.T) {
		rec, res := testutil.MakeJSONRequest(gin.H{
			"company_id":   fx.Company2.ID,
			"recruiter_id": fx.Recruiter2.ID.String(),
			"title":        "Platform Engineer",
		}, tok, r, "/admin/job-postings", http.MethodPost)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, model.JobStatusDraft, res["status"])
		assert.Equal(t, model.RemoteTypeOnsite, res["remote_type"])
	})

	t.Run("id is read only", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"id": 777, "name": "Forced"}, tok, r, "/admin/companies", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"name": "Bad", "size": "huge"}, tok, r, "/admin/companies", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"name": "Bad", "ceo": "x"}, tok, r, "/admin/companies", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dangling reference", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{
			"company_id":   99999,
			"recruiter_id": fx.Recruiter2.ID.String(),
			"title":        "Nowhere",
		}, tok, r, "/admin/job-postings", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateRecord(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	t.Run("user role is kept", func(t *testing.T) {
		endpoint := "/admin/users/" + fx.Candidate2.ID.String()
		rec, res := testutil.MakeJSONRequest(gin.H{
			"user_type": model.RoleAdmin,
			"location":  "Berlin",
		}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, model.RoleCandidate, res["user_type"])
		assert.Equal(t, "Berlin", res["location"])

		stored := model.User{}
		require.NoError(t, testDB.First(&stored, "id = ?", fx.Candidate2.ID).Error)
		assert.Equal(t, model.RoleCandidate, stored.UserType)
		assert.Equal(t, "Berlin", stored.Location)
	})

	t.Run("admin can deactivate", func(t *testing.T) {
		endpoint := "/admin/users/" + fx.Recruiter2.ID.String()
		rec, res := testutil.MakeJSONRequest(gin.H{"is_active": false}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, res["is_active"])

		rec, _ = testutil.MakeJSONRequest(gin.H{"is_active": true}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		endpoint := fmt.Sprintf("/admin/job-postings/%d", fx.OtherJob.ID)
		rec, res := testutil.MakeJSONRequest(gin.H{"status": model.JobStatusPaused}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, model.JobStatusPaused, res["status"])
		assert.Equal(t, fx.OtherJob.Title, res["title"])
		assert.Equal(t, fx.Recruiter2.ID.String(), res["recruiter_id"])

		rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.JobStatusActive}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("owner is kept", func(t *testing.T) {
		endpoint := fmt.Sprintf("/admin/job-postings/%d", fx.OtherJob.ID)
		rec, res := testutil.MakeJSONRequest(gin.H{"recruiter_id": fx.Recruiter1.ID.String()}, tok, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, fx.Recruiter2.ID.String(), res["recruiter_id"])
	})

	t.Run("id is read only", func(t *testing.T) {
		endpoint := fmt.Sprintf("/admin/companies/%d", fx.Company1.ID)
		rec, _ := testutil.MakeJSONRequest(gin.H{"id": 999}, tok, r, endpoint, http.MethodPatch)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid value", func(t *testing.T) {
		endpoint := fmt.Sprintf("/admin/applications/%d", fx.Application1.ID)
		rec, _ := testutil.MakeJSONRequest(gin.H{"status": "lost"}, tok, r, endpoint, http.MethodPatch)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(gin.H{"name": "x"}, tok, r, "/admin/companies/99999", http.MethodPatch)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteRecord(t *testing.T) {
	r := setupRouter()
	tok := adminToken(t)

	company := model.Company{EditableCompanyInfo: model.EditableCompanyInfo{Name: "Short Lived"}}
	require.NoError(t, testDB.Create(&company).Error)
	endpoint := fmt.Sprintf("/admin/companies/%d", company.ID)

	rec, res := testutil.MakeJSONRequest(nil, tok, r, endpoint, http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Record deleted", res["message"])

	rec, _ = testutil.MakeJSONRequest(nil, tok, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	t.Run("can not delete yourself", func(t *testing.T) {
		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/users/"+fx.Admin.ID.String(), http.MethodDelete)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		user := model.NewUser()
		user.Username = "temporary"
		user.Password = "x"
		require.NoError(t, database.CreateAccount(testDB.DB, user))

		rec, _ := testutil.MakeJSONRequest(nil, tok, r, "/admin/users/"+user.ID.String(), http.MethodDelete)
		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		require.NoError(t, testDB.Model(&model.UserPreferences{}).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
