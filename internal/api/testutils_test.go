package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/safebite/safebite/backend/internal/middleware"
	"github.com/safebite/safebite/backend/internal/mocks"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
	"github.com/safebite/safebite/backend/internal/testhelpers"
)

const testSecret = "test-jwt-secret"

type testEnv struct {
	router   *gin.Engine
	store    store.Store
	gemini   *mocks.MockGenerator
	verifier *service.JWTVerifier
}

// setupTestEnv builds every handler over an in-memory sqlite store, a JWT
// verifier and a mocked Gemini gateway.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewGormStore(testhelpers.SetupSQLite(t))
	gemini := &mocks.MockGenerator{}
	verifier := service.NewJWTVerifier(testSecret)
	reference := service.NewReferenceService(s)

	router := gin.New()
	router.GET("/", Home)
	auth := middleware.AuthMiddleware(verifier)
	v := router.Group("/api")
	NewProfileHandler(service.NewProfileService(s)).RegisterRoutes(v, auth)
	NewLogHandler(service.NewLogService(s)).RegisterRoutes(v, auth)
	NewReferenceHandler(reference).RegisterRoutes(v)
	NewAlertHandler(service.NewAlertService()).RegisterRoutes(v, auth)
	NewInsightHandler(service.NewInsightService(s, reference, gemini)).RegisterRoutes(v, auth)

	return &testEnv{router: router, store: s, gemini: gemini, verifier: verifier}
}

func (e *testEnv) token(t *testing.T, uid string) string {
	t.Helper()
	tok, err := e.verifier.IssueToken(uid, time.Hour)
	require.NoError(t, err)
	return tok
}

// PerformRequestWithToken sends body (marshaled unless it is a string) with
// an optional bearer token.
func (e *testEnv) PerformRequestWithToken(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
