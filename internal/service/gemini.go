package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/models"
)

var ErrGeneration = errors.New("gemini generation failed")

const (
	defaultGeminiTimeout = 30 * time.Second
	defaultRetryWait     = 500 * time.Millisecond
	geminiRetries        = 1
	// cap on the error body echoed into logs
	maxErrorBody = 2048
)

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   *models.Schema `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiService calls the Gemini generateContent endpoint.
type GeminiService struct {
	apiKey    string
	apiURL    string
	timeout   time.Duration
	retryWait time.Duration
	client    *http.Client
}

var _ Generator = (*GeminiService)(nil)

// GeminiOption customizes a GeminiService.
type GeminiOption func(*GeminiService)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(s *GeminiService) { s.client = c }
}

// WithRetryWait sets the pause before the single retry.
func WithRetryWait(d time.Duration) GeminiOption {
	return func(s *GeminiService) { s.retryWait = d }
}

// NewGeminiService creates a gateway client. timeout bounds each attempt.
func NewGeminiService(apiKey, apiURL string, timeout time.Duration, opts ...GeminiOption) *GeminiService {
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}
	s := &GeminiService{
		apiKey:    apiKey,
		apiURL:    apiURL,
		timeout:   timeout,
		retryWait: defaultRetryWait,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate posts prompt and returns the first candidate's text, or its
// decoded JSON when schema is set. Transport errors, 429 and 5xx responses
// are retried once; everything else fails immediately.
func (s *GeminiService) Generate(ctx context.Context, prompt string, schema *models.Schema) (any, error) {
	log := logging.FromContext(ctx)

	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	if schema != nil {
		payload.GenerationConfig = &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: error marshaling request: %v", ErrGeneration, err)
	}

	var text string
	attempt := 0
	op := func() error {
		attempt++
		t, err := s.post(ctx, body)
		if err != nil {
			log.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("gemini request failed")
			return err
		}
		text = t
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryWait), geminiRetries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}

	log.WithField("response", text).Debug("gemini raw response")
	if schema == nil {
		return text, nil
	}

	var result any
	if err := json.Unmarshal([]byte(cleanJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", ErrGeneration, err)
	}
	return result, nil
}

// post performs one attempt. Errors that must not be retried are wrapped
// with backoff.Permanent.
func (s *GeminiService) post(ctx context.Context, body []byte) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, s.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: error creating request: %v", ErrGeneration, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(fmt.Errorf("%w: %v", ErrGeneration, ctx.Err()))
		}
		// *url.Error would echo the key-bearing URL
		return "", fmt.Errorf("%w: request failed: %v", ErrGeneration, errors.Unwrap(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: error reading response: %v", ErrGeneration, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: API request failed with status %d: %s",
			ErrGeneration, resp.StatusCode, truncate(string(respBody), maxErrorBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", statusErr
		}
		return "", backoff.Permanent(statusErr)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("%w: error decoding response: %v", ErrGeneration, err))
	}
	if len(parsed.Candidates) == 0 ||
		len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == nil {
		return "", backoff.Permanent(fmt.Errorf("%w: response missing expected structure", ErrGeneration))
	}
	return *parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (s *GeminiService) endpoint() string {
	sep := "?"
	if strings.Contains(s.apiURL, "?") {
		sep = "&"
	}
	return s.apiURL + sep + "key=" + s.apiKey
}

// cleanJSON strips a markdown code fence the model sometimes wraps around
// JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
