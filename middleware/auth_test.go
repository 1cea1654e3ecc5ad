package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaymart-backend/models"
	"zaymart-backend/utils"
)

func authedRequest(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT("64f1c0ffee0000000000abcd", "user@example.com", role)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_AttachesClaims(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	var got *utils.Claims
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		require.True(t, ok)
		got = claims
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleSeller))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "64f1c0ffee0000000000abcd", got.ID)
	assert.Equal(t, "user@example.com", got.Email)
	assert.Equal(t, models.RoleSeller, got.Role)
}

func TestRequireRole(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	reached := false
	handler := AuthMiddleware(RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	// Customer hits the admin gate
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	// Admin passes
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	handler := AuthMiddleware(RequireRole(models.RoleSeller, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleSeller))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
