package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/safebite/safebite/backend/internal/router"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
	"github.com/safebite/safebite/backend/internal/testhelpers"
)

const jwtSecret = "integration-secret"

func geminiReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

// fakeGemini answers each prompt kind with a canned result.
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		prompt := string(body)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(prompt, "chronological log entries"):
			fmt.Fprint(w, geminiReply("```json\n[{\"allergen\":\"Lupin\",\"reasoning\":\"Hives after lupin pasta\"}]\n```"))
		case strings.Contains(prompt, "recurring patterns"):
			fmt.Fprint(w, geminiReply(`{"patterns":["Hives after lupin"],"suggestions":["Avoid lupin flour"]}`))
		case strings.Contains(prompt, "Text to analyze"):
			fmt.Fprint(w, geminiReply(`{"detected_allergens":[{"allergenId":"lupin","name":"Lupin","type":"Direct Match","reason":"lupin flour"}],"overall_risk_summary":"High","clarifying_questions":[]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			c.t.Fatalf("failed to decode %s %s response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func TestIntegrationProfileLogsAndPredictions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	docs := store.NewGormStore(testhelpers.SetupSQLite(t))
	verifier := service.NewJWTVerifier(jwtSecret)
	gemini := service.NewGeminiService("dummy", fakeGemini(t).URL, 2*time.Second, service.WithRetryWait(time.Millisecond))
	r := router.SetupRouter(router.NewDependencies(log, docs, verifier, gemini, []string{"*"}))

	seed, err := service.DecodeReferenceSeed(strings.NewReader(`{"allergens":[{"id":"lupin","name":"Lupin","hiddenSources":["gluten-free flour"]}]}`))
	if err != nil {
		t.Fatalf("failed to decode seed: %v", err)
	}
	if _, err := service.SeedReference(context.Background(), docs, seed); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	token, err := verifier.IssueToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	alice := &client{t: t, router: r, token: token}
	anon := &client{t: t, router: r}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "SafeBite") {
		t.Fatalf("home failed: %d %q", w.Code, w.Body.String())
	}

	if code := anon.do(http.MethodGet, "/api/user/profile", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	if code := alice.do(http.MethodPost, "/api/user/profile", map[string]any{"name": "Alice", "knownAllergens": []string{"lupin"}}, nil); code != http.StatusCreated {
		t.Fatalf("create profile failed: %d", code)
	}
	if code := alice.do(http.MethodPut, "/api/user/profile", map[string]any{"emergencyContact": "Bob"}, nil); code != http.StatusOK {
		t.Fatalf("update profile failed: %d", code)
	}
	var profile map[string]any
	if code := alice.do(http.MethodGet, "/api/user/profile", nil, &profile); code != http.StatusOK {
		t.Fatalf("get profile failed: %d", code)
	}
	if profile["name"] != "Alice" || profile["emergencyContact"] != "Bob" {
		t.Fatalf("profile not merged: %v", profile)
	}

	logs := []map[string]any{
		{"type": "food_intake", "foodIntakeDate": "2024-03-01", "foodIntakeTime": "12:00", "foodIntakeText": "Lupin pasta", "timestamp": "2024-03-01T12:00:00Z"},
		{"type": "symptom", "symptomDate": "2024-03-01", "symptomTime": "13:00", "symptomsExperienced": []string{"hives"}, "severity": "moderate", "timestamp": "2024-03-01T13:00:00Z"},
	}
	for _, l := range logs {
		var created map[string]string
		if code := alice.do(http.MethodPost, "/api/user/logs", l, &created); code != http.StatusCreated || created["id"] == "" {
			t.Fatalf("add log failed: %d %v", code, created)
		}
	}
	var listed []map[string]any
	if code := alice.do(http.MethodGet, "/api/user/logs", nil, &listed); code != http.StatusOK || len(listed) != 2 {
		t.Fatalf("list logs failed: %d %v", code, listed)
	}

	var analysis map[string]map[string]any
	if code := alice.do(http.MethodPost, "/api/analyze-text", map[string]any{"text": "lupin flour pasta", "userAllergens": []string{"lupin"}}, &analysis); code != http.StatusOK {
		t.Fatalf("analyze-text failed: %d", code)
	}
	if analysis["analysis_result"]["overall_risk_summary"] != "High" {
		t.Fatalf("unexpected analysis: %v", analysis)
	}

	var insights map[string]any
	if code := alice.do(http.MethodGet, "/api/predictive-analytics", nil, &insights); code != http.StatusOK {
		t.Fatalf("predictive-analytics failed: %d", code)
	}
	if insights["gemini_insights"] != service.MsgInsightsComplete {
		t.Fatalf("unexpected insights: %v", insights)
	}

	var prediction struct {
		PredictedAllergens []map[string]string `json:"predicted_allergens"`
		Message            string              `json:"gemini_message"`
	}
	if code := alice.do(http.MethodGet, "/api/predict-allergen", nil, &prediction); code != http.StatusOK {
		t.Fatalf("predict-allergen failed: %d", code)
	}
	if len(prediction.PredictedAllergens) != 1 || prediction.PredictedAllergens[0]["allergen"] != "Lupin" {
		t.Fatalf("unexpected prediction: %+v", prediction)
	}
	if prediction.Message != service.MsgPredictComplete {
		t.Fatalf("unexpected message: %q", prediction.Message)
	}

	// another user sees none of alice's data
	otherToken, _ := verifier.IssueToken("bob", time.Hour)
	bob := &client{t: t, router: r, token: otherToken}
	if code := bob.do(http.MethodGet, "/api/user/profile", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for bob's profile, got %d", code)
	}
	var bobLogs []map[string]any
	if code := bob.do(http.MethodGet, "/api/user/logs", nil, &bobLogs); code != http.StatusOK || len(bobLogs) != 0 {
		t.Fatalf("bob should have no logs: %d %v", code, bobLogs)
	}
}
