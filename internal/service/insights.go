package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// ErrUnexpectedFormat means Gemini answered but not in the requested shape.
var ErrUnexpectedFormat = errors.New("gemini returned an unexpected format")

// Messages returned in the gemini_insights / gemini_message fields.
const (
	MsgInsightsNoLogs    = "No sufficient log data available yet to generate predictive insights. Please log more entries!"
	MsgInsightsFailed    = "Failed to generate insights from logs. Please try again later."
	MsgInsightsComplete  = "Analysis completed successfully."
	MsgPredictNoLogs     = "No log data available yet to predict possible allergens. Please log more entries!"
	MsgPredictFailed     = "Failed to get allergen predictions from Gemini. Please check backend logs."
	MsgPredictBadFormat  = "Gemini returned an unexpected format for allergen prediction. Please try again."
	MsgPredictNoPatterns = "No clear patterns or possible allergens could be predicted from your current logs. Please log more data for better insights."
	MsgPredictComplete   = "Analysis complete. Here are possible allergens based on your logs."
)

// PredictiveInsights is the body of /api/predictive-analytics.
type PredictiveInsights struct {
	Patterns    []string `json:"patterns"`
	Suggestions []string `json:"suggestions"`
	Message     string   `json:"gemini_insights"`
}

// AllergenPrediction is the body of /api/predict-allergen.
type AllergenPrediction struct {
	PredictedAllergens []any  `json:"predicted_allergens"`
	Message            string `json:"gemini_message"`
}

// InsightService combines user logs and reference data with Gemini.
type InsightService struct {
	store     store.Store
	reference IReferenceService
	gemini    Generator
}

var _ IInsightService = (*InsightService)(nil)

func NewInsightService(s store.Store, reference IReferenceService, gemini Generator) *InsightService {
	return &InsightService{store: s, reference: reference, gemini: gemini}
}

// AnalyzeText asks Gemini to assess text against the caller's allergens and
// the allergen catalog. Gateway failures and empty or non-object answers
// return errors wrapping ErrGeneration or ErrUnexpectedFormat.
func (s *InsightService) AnalyzeText(ctx context.Context, text string, userAllergens []string) (map[string]any, error) {
	catalog, err := s.reference.AllergenCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load allergen catalog: %w", err)
	}

	prompt, schema := TextAnalysisPrompt(text, userAllergens, catalog)
	result, err := s.gemini.Generate(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}

	obj, ok := result.(map[string]any)
	if !ok || len(obj) == 0 {
		logging.FromContext(ctx).WithField("result", result).Warn("unexpected text analysis result")
		return nil, ErrUnexpectedFormat
	}
	return obj, nil
}

// PredictiveAnalytics looks for patterns across all of the caller's logs,
// oldest first. With no logs it answers without calling Gemini.
func (s *InsightService) PredictiveAnalytics(ctx context.Context, uid string) (*PredictiveInsights, error) {
	logs, err := readLogs(ctx, s.store, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	if len(logs) == 0 {
		return &PredictiveInsights{
			Patterns:    []string{},
			Suggestions: []string{},
			Message:     MsgInsightsNoLogs,
		}, nil
	}

	models.SortByTimestamp(logs)
	prompt, schema := PredictiveAnalyticsPrompt(logs)
	result, err := s.gemini.Generate(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}

	obj, ok := result.(map[string]any)
	if !ok || len(obj) == 0 {
		logging.FromContext(ctx).WithField("result", result).Warn("unexpected predictive analytics result")
		return nil, ErrUnexpectedFormat
	}
	doc := models.Document(obj)
	return &PredictiveInsights{
		Patterns:    nonNilStrings(doc.Strings("patterns")),
		Suggestions: nonNilStrings(doc.Strings("suggestions")),
		Message:     MsgInsightsComplete,
	}, nil
}

// PredictAllergens asks Gemini for possible allergens given the caller's
// chronological logs. A nil answer wraps ErrGeneration; a non-array answer
// is ErrUnexpectedFormat.
func (s *InsightService) PredictAllergens(ctx context.Context, uid string) (*AllergenPrediction, error) {
	logs, err := readLogs(ctx, s.store, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs: %w", err)
	}
	if len(logs) == 0 {
		return &AllergenPrediction{PredictedAllergens: []any{}, Message: MsgPredictNoLogs}, nil
	}

	models.SortByTimestamp(logs)
	prompt, schema := AllergenPredictionPrompt(logs)
	result, err := s.gemini.Generate(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response", ErrGeneration)
	}

	list, ok := result.([]any)
	if !ok {
		logging.FromContext(ctx).WithField("result", result).Warn("unexpected allergen prediction result")
		return nil, ErrUnexpectedFormat
	}
	if len(list) == 0 {
		return &AllergenPrediction{PredictedAllergens: []any{}, Message: MsgPredictNoPatterns}, nil
	}
	return &AllergenPrediction{PredictedAllergens: list, Message: MsgPredictComplete}, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
