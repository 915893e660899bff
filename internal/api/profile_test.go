package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/safebite/safebite/backend/internal/middleware"
	"github.com/safebite/safebite/backend/internal/mocks"
)

func TestHome(t *testing.T) {
	env := setupTestEnv(t)
	w := env.PerformRequestWithToken(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SafeBite Backend API is running!", w.Body.String())
}

func TestProfileRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut} {
		w := env.PerformRequestWithToken(t, method, "/api/user/profile", map[string]any{"name": "x"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, map[string]string{"error": "Authorization token required"}, decode[map[string]string](t, w))

		w = env.PerformRequestWithToken(t, method, "/api/user/profile", map[string]any{"name": "x"}, "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, map[string]string{"error": "Invalid or expired token"}, decode[map[string]string](t, w))
	}
}

func TestProfileLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, "user-a")

	w := env.PerformRequestWithToken(t, http.MethodGet, "/api/user/profile", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, map[string]string{"message": "Profile not found"}, decode[map[string]string](t, w))

	w = env.PerformRequestWithToken(t, http.MethodPut, "/api/user/profile", map[string]any{"name": "Ada"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	profile := map[string]any{"name": "Ada", "knownAllergens": []any{"lupin"}}
	w = env.PerformRequestWithToken(t, http.MethodPost, "/api/user/profile", profile, token)
	assert.Equal(t, http.StatusCreated, w.Code)
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Profile created successfully", created["message"])
	assert.Equal(t, profile, created["profile"])

	w = env.PerformRequestWithToken(t, http.MethodGet, "/api/user/profile", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profile, decode[map[string]any](t, w))

	w = env.PerformRequestWithToken(t, http.MethodPut, "/api/user/profile", map[string]any{"city": "Oslo"}, token)
	assert.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "Profile updated successfully", updated["message"])
	assert.Equal(t, map[string]any{"city": "Oslo"}, updated["profile"])

	w = env.PerformRequestWithToken(t, http.MethodGet, "/api/user/profile", nil, token)
	assert.Equal(t, map[string]any{"name": "Ada", "knownAllergens": []any{"lupin"}, "city": "Oslo"}, decode[map[string]any](t, w))

	// another user's token sees nothing
	w = env.PerformRequestWithToken(t, http.MethodGet, "/api/user/profile", nil, env.token(t, "user-b"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileInvalidBody(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, "user-a")

	for _, body := range []string{"", "not json", "[1,2]", "null"} {
		w := env.PerformRequestWithToken(t, http.MethodPost, "/api/user/profile", body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, map[string]string{"error": "Invalid request body"}, decode[map[string]string](t, w))
	}
}

func TestProfileStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profiles := &mocks.MockProfileService{}
	profiles.On("GetProfile", mock.Anything, "user-a").Return(nil, errors.New("connection reset by peer"))

	router := gin.New()
	setUser := func(c *gin.Context) { c.Set(middleware.UserIDKey, "user-a") }
	NewProfileHandler(profiles).RegisterRoutes(router.Group("/api"), setUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil).WithContext(context.Background())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	profiles.AssertExpectations(t)
}

func TestProfileKeepsLargeIntegers(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token(t, "user-a")

	w := env.PerformRequestWithToken(t, http.MethodPost, "/api/user/profile", `{"n":9007199254740993,"ratio":0.25}`, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.PerformRequestWithToken(t, http.MethodGet, "/api/user/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"n":9007199254740993,"ratio":0.25}`, w.Body.String())
	assert.Contains(t, w.Body.String(), "9007199254740993")
}
