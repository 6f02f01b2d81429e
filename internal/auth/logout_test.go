package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micdr93/yardly/internal/database"
)

// unavailableStore fails every write, like a blacklist whose backend is down.
type unavailableStore struct{}

func (unavailableStore) IsBlacklisted(string) (bool, error) { return false, nil }

func (unavailableStore) AddToBlacklist(string, time.Time) error {
	return errors.New("blacklist backend unavailable")
}

// callLogout runs LogoutHandler with the given Authorization header. A
// non-nil claims value is stored the way RequireAuth stores it.
func callLogout(t *testing.T, store JwtBlacklistStore, header string, claims interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	if claims != nil {
		c.Set("claims", claims)
	}

	NewLogoutController(store).LogoutHandler(c)

	resp := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// loginClaims logs username in and returns the token with its parsed claims.
func loginClaims(t *testing.T, username string) (string, *jwt.RegisteredClaims) {
	t.Helper()
	token, err := GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	parsed, err := ValidatedToken(token)
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	return token, claims
}

func TestLogoutRevokesToken(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	token, claims := loginClaims(t, fx.Candidate1.Username)

	rec, resp := callLogout(t, store, "Bearer "+token, claims)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out", resp["message"])

	revoked, err := store.IsBlacklisted(token)
	assert.NoError(t, err)
	assert.True(t, revoked)
	assert.WithinDuration(t, claims.ExpiresAt.Time, store.blacklist[token], time.Second)
}

func TestLogoutRejected(t *testing.T) {
	token, claims := loginClaims(t, fx.Recruiter1.Username)

	cases := []struct {
		name    string
		header  string
		claims  interface{}
		message string
	}{
		{name: "no header", claims: claims, message: "authorization header"},
		{name: "wrong scheme", header: "Token " + token, claims: claims, message: "authorization header"},
		{name: "claims missing", header: "Bearer " + token, message: "invalid token claims"},
		{name: "claims of another type", header: "Bearer " + token, claims: "recruiter_1", message: "invalid token claims type"},
		{name: "claims without expiry", header: "Bearer " + token, claims: &jwt.RegisteredClaims{Subject: claims.Subject}, message: "invalid token claims type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewInMemoryBlacklistStore()
			rec, resp := callLogout(t, store, tc.header, tc.claims)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, resp["error"], tc.message)

			revoked, _ := store.IsBlacklisted(token)
			assert.False(t, revoked)
		})
	}
}

func TestLogoutStoreFailure(t *testing.T) {
	token, claims := loginClaims(t, fx.Candidate1.Username)

	rec, resp := callLogout(t, unavailableStore{}, "Bearer "+token, claims)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to logout", resp["error"])
}

func TestLogoutKeepsOtherSessions(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	candidateToken, candidateClaims := loginClaims(t, fx.Candidate1.Username)
	recruiterToken, _ := loginClaims(t, fx.Recruiter1.Username)

	rec, _ := callLogout(t, store, "Bearer "+candidateToken, candidateClaims)
	require.Equal(t, http.StatusOK, rec.Code)

	revoked, _ := store.IsBlacklisted(candidateToken)
	assert.True(t, revoked)
	revoked, _ = store.IsBlacklisted(recruiterToken)
	assert.False(t, revoked, "logging out one account must not revoke another")
}

func TestRevokedTokenDroppedAfterExpiry(t *testing.T) {
	store := NewInMemoryBlacklistStore()
	token, err := GenerateTokenWithDuration(fx.Candidate2.ID, -time.Minute, Issuer)
	require.NoError(t, err)
	claims := &jwt.RegisteredClaims{
		Subject:   fx.Candidate2.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}

	rec, _ := callLogout(t, store, "Bearer "+token, claims)
	require.Equal(t, http.StatusOK, rec.Code)
	revoked, _ := store.IsBlacklisted(token)
	require.True(t, revoked)

	store.CleanUpExpired()

	revoked, err = store.IsBlacklisted(token)
	assert.NoError(t, err)
	assert.False(t, revoked)
}
