package service

import (
	"context"

	"github.com/safebite/safebite/backend/internal/models"
)

// TokenVerifier resolves a bearer token to the caller's user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Generator sends one prompt to the generative-AI gateway. With a schema the
// result is the decoded JSON value; without one it is the response text.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *models.Schema) (any, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, uid string) (models.Document, error)
	CreateProfile(ctx context.Context, uid string, profile models.Document) error
	UpdateProfile(ctx context.Context, uid string, changes models.Document) error
}

// ILogService defines the interface for symptom and exposure logs
type ILogService interface {
	AddLog(ctx context.Context, uid string, entry models.Document) (string, error)
	ListLogs(ctx context.Context, uid string) ([]models.Document, error)
}

// IReferenceService serves the shared read-only reference collections
type IReferenceService interface {
	ListAllergens(ctx context.Context) ([]models.Document, error)
	GetAllergen(ctx context.Context, id string) (models.Document, error)
	AllergenCatalog(ctx context.Context) ([]models.Allergen, error)
	ListEducationalResources(ctx context.Context) ([]models.Document, error)
}

// IAlertService returns recall and contamination alerts
type IAlertService interface {
	ListAlerts(ctx context.Context) []models.Alert
}

// IInsightService runs the Gemini-backed analyses
type IInsightService interface {
	AnalyzeText(ctx context.Context, text string, userAllergens []string) (map[string]any, error)
	PredictiveAnalytics(ctx context.Context, uid string) (*PredictiveInsights, error)
	PredictAllergens(ctx context.Context, uid string) (*AllergenPrediction, error)
}
