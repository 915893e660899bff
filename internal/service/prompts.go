package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/safebite/safebite/backend/internal/models"
)

const textAnalysisTemplate = `Analyze the following food item, recipe, or menu text for potential food allergy risks.
The user has allergies to the following specific allergen IDs: %s.
Here is a list of known uncommon allergens from our database, including their common names, hidden sources, and cross-reactive foods:
%s

Text to analyze: %s

Your task is to:
1. Identify any specific allergens present in the text that match the user's known allergies or are highly likely to be present (e.g., from brand names or common knowledge). For each identified allergen, state if it's a direct match or a high probability.
2. Identify any potential hidden sources or cross-reactive foods from the text that relate to the user's allergies or the known uncommon allergens.
3. Provide a concise, overall risk assessment summary.
4. Suggest any clarifying questions if the text is ambiguous.

Provide the output in a structured JSON format with the following keys:
- "detected_allergens": An array of objects. Each object should have "allergenId" (string), "name" (string), "type" (string, e.g., "Direct Match", "High Probability", "Cross-Reactivity"), and "reason" (string, explaining why it was detected).
- "overall_risk_summary": A narrative string summarizing the risks.
- "clarifying_questions": An array of strings with questions if needed.
`

const predictiveAnalyticsTemplate = `Analyze the following food allergy symptom and exposure logs for a user.
Identify any recurring patterns, potential triggers, or correlations between food intake, symptoms, severity, and exposure sources.
Based on these patterns, provide actionable suggestions for the user.

Here are the user's logs:
%s

Provide your analysis in a structured JSON format with two keys: "patterns" (a list of strings describing insights) and "suggestions" (a list of actionable advice strings).
`

const allergenPredictionTemplate = `You are an AI assistant specialized in analyzing dietary logs and predicting possible food allergens.
Analyze the following chronological log entries, which include food intake and symptom occurrences.
Based on the patterns you observe (e.g., specific foods consumed before symptoms, consistency of symptoms),
identify the most likely uncommon food allergens that might be causing the reactions.
Consider cross-reactivity and hidden sources if implied by the data.

Focus on providing a list of *possible* allergens, not definitive diagnoses.
For each predicted allergen, provide a brief, clear reasoning based on the provided logs.
If no clear patterns or allergens can be predicted, state that.

User's chronological logs:
%s

Provide your analysis in a structured JSON format. The response should be an array of objects.
Each object must have two properties: "allergen" (string, the name of the possible allergen)
and "reasoning" (string, a brief explanation based on the logs).
If no allergens can be predicted, return an empty array.
`

const notAvailable = "N/A"

// TextAnalysisPrompt builds the prompt and schema for /api/analyze-text.
func TextAnalysisPrompt(text string, userAllergens []string, catalog []models.Allergen) (string, *models.Schema) {
	if catalog == nil {
		catalog = []models.Allergen{}
	}
	prompt := fmt.Sprintf(textAnalysisTemplate,
		strings.Join(userAllergens, ", "),
		indentJSON(catalog),
		quoteJSON(text),
	)

	schema := models.ObjectOf(map[string]*models.Schema{
		"detected_allergens": models.ArrayOf(models.ObjectOf(map[string]*models.Schema{
			"allergenId": models.StringSchema(),
			"name":       models.StringSchema(),
			"type":       models.StringSchema(),
			"reason":     models.StringSchema(),
		}, "allergenId", "name", "type", "reason")),
		"overall_risk_summary": models.StringSchema(),
		"clarifying_questions": models.ArrayOf(models.StringSchema()),
	}, "detected_allergens", "overall_risk_summary", "clarifying_questions")

	return prompt, schema
}

// PredictiveAnalyticsPrompt builds the prompt and schema for
// /api/predictive-analytics. Logs are rendered in the order given.
func PredictiveAnalyticsPrompt(logs []models.Document) (string, *models.Schema) {
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("Date: %s, Food: %s, Symptoms: %s, Severity: %s, Source: %s",
			l.TimestampString(),
			l.StringOr("foodIntake", notAvailable),
			l.JoinStrings(models.FieldSymptoms),
			l.StringOr("severity", notAvailable),
			l.StringOr("potentialExposureSource", notAvailable),
		))
	}
	prompt := fmt.Sprintf(predictiveAnalyticsTemplate, indentJSON(lines))

	schema := models.ObjectOf(map[string]*models.Schema{
		"patterns":    models.ArrayOf(models.StringSchema()),
		"suggestions": models.ArrayOf(models.StringSchema()),
	}, "patterns", "suggestions")

	return prompt, schema
}

// AllergenPredictionPrompt builds the prompt and schema for
// /api/predict-allergen. logs must already be in chronological order;
// entries that are neither food intake nor symptom logs are skipped.
func AllergenPredictionPrompt(logs []models.Document) (string, *models.Schema) {
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		switch l.String(models.FieldType) {
		case models.LogTypeFoodIntake:
			lines = append(lines, fmt.Sprintf("Food Intake on %s at %s: %s",
				l.StringOr("foodIntakeDate", "None"),
				l.StringOr("foodIntakeTime", "None"),
				l.StringOr("foodIntakeText", notAvailable),
			))
		case models.LogTypeSymptom:
			date := l.StringOr("symptomDate", "None")
			at := l.StringOr("symptomTime", "None")
			symptoms := l.Strings(models.FieldSymptoms)
			if len(symptoms) > 0 && symptoms[0] == models.NoSymptoms {
				lines = append(lines, fmt.Sprintf("Symptoms on %s at %s: No symptoms reported (Nil).", date, at))
				continue
			}
			lines = append(lines, fmt.Sprintf("Symptoms on %s at %s: Symptoms: %s, Severity: %s, Source: %s",
				date, at,
				strings.Join(symptoms, ", "),
				l.StringOr("severity", notAvailable),
				l.StringOr("potentialExposureSource", notAvailable),
			))
		}
	}
	prompt := fmt.Sprintf(allergenPredictionTemplate, indentJSON(lines))

	schema := models.ArrayOf(models.ObjectOf(map[string]*models.Schema{
		"allergen":  models.StringSchema(),
		"reasoning": models.StringSchema(),
	}, "allergen", "reasoning"))

	return prompt, schema
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func quoteJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
