package server

import (
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micdr93/yardly/internal/database"
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
	testDB, fx, err = database.GetTestDB("server")
	if err != nil {
		log.Printf("failed to prepare test database: %v", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "1000")
	r, ok := NewMyServer(testDB, DefaultPort).RegisterRoutes().(*gin.Engine)
	require.True(t, ok)
	return r
}

func serve(t *testing.T, r *gin.Engine, body gin.H, token string, endpoint string, method string) (int, map[string]interface{}) {
	t.Helper()
	rec, res := testutil.MakeJSONRequest(body, token, r, endpoint, method)
	return rec.Code, res
}

func TestHomeAndHealth(t *testing.T) {
	h := newRouter(t)

	code, res := serve(t, h, nil, "", "/", http.MethodGet)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Welcome to Yardly", res["message"])

	code, res = serve(t, h, nil, "", "/health", http.MethodGet)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "up", res["status"])
}

func TestSecurityHeaders(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "", newRouter(t), "/", http.MethodGet)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAuthenticationFlow(t *testing.T) {
	h := newRouter(t)

	code, res := serve(t, h, gin.H{
		"username":  "flow_candidate",
		"password":  "flowpass123",
		"email":     "flow@example.com",
		"user_type": model.RoleCandidate,
	}, "", "/api/v1/auth/register", http.MethodPost)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, res["access_token"])

	code, res = serve(t, h, gin.H{
		"username": "flow_candidate",
		"password": "flowpass123",
	}, "", "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, code)
	token := res["access_token"].(string)

	code, res = serve(t, h, nil, token, "/api/v1/account/me", http.MethodGet)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "flow_candidate", res["username"])

	code, _ = serve(t, h, gin.H{"current_title": "Engineer"}, token, "/api/v1/candidate/profile", http.MethodPut)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = serve(t, h, nil, token, "/api/v1/admin/users", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = serve(t, h, nil, token, "/api/v1/auth/logout", http.MethodPost)
	require.Equal(t, http.StatusOK, code)

	code, res = serve(t, h, nil, token, "/api/v1/account/me", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", res["error"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newRouter(t)

	for _, endpoint := range []string{
		"/api/v1/account/me",
		"/api/v1/jobs",
		"/api/v1/companies",
		"/api/v1/community/posts",
		"/api/v1/ethical-guidelines",
		"/api/v1/admin",
	} {
		code, _ := serve(t, h, nil, "", endpoint, http.MethodGet)
		assert.Equal(t, http.StatusUnauthorized, code, endpoint)
	}
}

func TestInactiveAccountRefused(t *testing.T) {
	h := newRouter(t)

	code, res := serve(t, h, gin.H{
		"username":  "soon_inactive",
		"password":  "inactive123",
		"user_type": model.RoleRecruiter,
	}, "", "/api/v1/auth/register", http.MethodPost)
	require.Equal(t, http.StatusCreated, code)
	token := res["access_token"].(string)

	require.NoError(t, testDB.Model(&model.User{}).Where("username = ?", "soon_inactive").Update("is_active", false).Error)

	code, _ = serve(t, h, nil, token, "/api/v1/jobs", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRoleRouting(t *testing.T) {
	h := newRouter(t)
	candidate := loginToken(t, h, fx.Candidate1.Username)
	recruiter := loginToken(t, h, fx.Recruiter1.Username)

	code, _ := serve(t, h, gin.H{"title": "Nope"}, candidate, "/api/v1/jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = serve(t, h, nil, recruiter, "/api/v1/candidate/profile", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = serve(t, h, nil, recruiter, "/api/v1/ai-decisions", http.MethodGet)
	assert.Equal(t, http.StatusOK, code)

	code, _ = serve(t, h, nil, recruiter, "/api/v1/bias-audits", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = serve(t, h, nil, candidate, "/api/v1/applications/mine", http.MethodGet)
	assert.Equal(t, http.StatusOK, code)
}

func loginToken(t *testing.T, h *gin.Engine, username string) string {
	t.Helper()
	code, res := serve(t, h, gin.H{
		"username": username,
		"password": database.TestSeedPassword,
	}, "", "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, code)
	return res["access_token"].(string)
}
