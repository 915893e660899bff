package types

// AnalyzeTextRequest is the body of POST /api/analyze-text
type AnalyzeTextRequest struct {
	Text          string   `json:"text"`
	UserAllergens []string `json:"userAllergens"`
}
