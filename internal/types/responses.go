package types

import "github.com/safebite/safebite/backend/internal/models"

// MessageResponse carries a human-readable status such as a not-found notice
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse is returned after a profile is created or updated
type ProfileResponse struct {
	Message string          `json:"message"`
	Profile models.Document `json:"profile"`
}

// LogCreatedResponse is returned after a log entry is stored
type LogCreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// AnalysisResponse wraps the structured text analysis
type AnalysisResponse struct {
	AnalysisResult map[string]any `json:"analysis_result"`
}
