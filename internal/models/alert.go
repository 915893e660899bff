package models

// Alert is a recall or contamination notice.
type Alert struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	RelevantAllergens []string `json:"relevantAllergens"`
}
