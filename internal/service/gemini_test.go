package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safebite/safebite/backend/internal/models"
)

func candidateBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

// geminiServer answers with the given status/body pairs in order, repeating
// the last one.
func geminiServer(t *testing.T, calls *int32, replies ...[2]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(calls, 1)) - 1
		if n >= len(replies) {
			n = len(replies) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(replies[n][0].(int))
		_, _ = io.WriteString(w, replies[n][1].(string))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGemini(url string) *GeminiService {
	return NewGeminiService("test-key", url, 2*time.Second, WithRetryWait(time.Millisecond))
}

func TestGenerateSendsSchemaAndKey(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, candidateBody(`{"patterns":["a"],"suggestions":[]}`))
	}))
	defer srv.Close()

	schema := models.ObjectOf(map[string]*models.Schema{"patterns": models.ArrayOf(models.StringSchema())}, "patterns")
	result, err := newTestGemini(srv.URL).Generate(context.Background(), "hello", schema)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"patterns": []any{"a"}, "suggestions": []any{}}, result)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.Equal(t, models.SchemaObject, got.GenerationConfig.ResponseSchema.Type)
}

func TestGenerateText(t *testing.T) {
	var calls int32
	srv := geminiServer(t, &calls, [2]any{http.StatusOK, candidateBody("plain answer")})

	result, err := newTestGemini(srv.URL).Generate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain answer", result)
}

func TestGenerateStripsCodeFence(t *testing.T) {
	var calls int32
	srv := geminiServer(t, &calls, [2]any{http.StatusOK, candidateBody("```json\n[{\"allergen\":\"lupin\",\"reasoning\":\"r\"}]\n```")})

	result, err := newTestGemini(srv.URL).Generate(context.Background(), "hi", models.ArrayOf(models.StringSchema()))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"allergen": "lupin", "reasoning": "r"}}, result)
}

func TestGenerateRetries(t *testing.T) {
	tests := []struct {
		name      string
		replies   [][2]any
		wantErr   bool
		wantCalls int32
	}{
		{
			name:      "server error then success",
			replies:   [][2]any{{http.StatusInternalServerError, `{}`}, {http.StatusOK, candidateBody(`{"ok":"yes"}`)}},
			wantCalls: 2,
		},
		{
			name:      "rate limited then success",
			replies:   [][2]any{{http.StatusTooManyRequests, `{}`}, {http.StatusOK, candidateBody(`{"ok":"yes"}`)}},
			wantCalls: 2,
		},
		{
			name:      "only one retry",
			replies:   [][2]any{{http.StatusServiceUnavailable, `{}`}},
			wantErr:   true,
			wantCalls: 2,
		},
		{
			name:      "client error is permanent",
			replies:   [][2]any{{http.StatusBadRequest, `{"error":"bad"}`}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "missing candidates is permanent",
			replies:   [][2]any{{http.StatusOK, `{"candidates":[]}`}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "undecodable envelope is permanent",
			replies:   [][2]any{{http.StatusOK, `not json`}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "non-JSON text is permanent",
			replies:   [][2]any{{http.StatusOK, candidateBody("this is not json")}},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := geminiServer(t, &calls, tt.replies...)

			result, err := newTestGemini(srv.URL).Generate(context.Background(), "p", models.ObjectOf(nil))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGeneration)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, map[string]any{"ok": "yes"}, result)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestGenerateTimeoutIsRetriedOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	g := NewGeminiService("k", srv.URL, 50*time.Millisecond, WithRetryWait(time.Millisecond))
	_, err := g.Generate(context.Background(), "p", nil)
	assert.ErrorIs(t, err, ErrGeneration)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateHonorsCancellation(t *testing.T) {
	var calls int32
	srv := geminiServer(t, &calls, [2]any{http.StatusOK, candidateBody("x")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestGemini(srv.URL).Generate(ctx, "p", nil)
	assert.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestGenerateErrorDoesNotLeakKey(t *testing.T) {
	g := NewGeminiService("super-secret-key", "http://127.0.0.1:1/unreachable", time.Second, WithRetryWait(time.Millisecond))
	_, err := g.Generate(context.Background(), "p", nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret-key")
}
