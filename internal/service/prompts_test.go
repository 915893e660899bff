package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/safebite/safebite/backend/internal/models"
)

func TestTextAnalysisPrompt(t *testing.T) {
	catalog := []models.Allergen{{
		ID:                 "lupin",
		Name:               "Lupin",
		CommonNames:        []string{"lupine"},
		HiddenSources:      []string{"gluten-free flour"},
		CrossReactiveFoods: []string{"peanut"},
	}}

	prompt, schema := TextAnalysisPrompt(`Pasta with "lupin" flour`, []string{"lupin", "sesame"}, catalog)

	assert.Contains(t, prompt, "specific allergen IDs: lupin, sesame.")
	assert.Contains(t, prompt, `Text to analyze: "Pasta with \"lupin\" flour"`)
	assert.Contains(t, prompt, `"crossReactiveFoods": [`)
	assert.Contains(t, prompt, `"id": "lupin"`)

	assert.Equal(t, models.SchemaObject, schema.Type)
	assert.ElementsMatch(t, []string{"detected_allergens", "overall_risk_summary", "clarifying_questions"}, schema.Required)
	detected := schema.Properties["detected_allergens"]
	assert.Equal(t, models.SchemaArray, detected.Type)
	assert.ElementsMatch(t, []string{"allergenId", "name", "type", "reason"}, detected.Items.Required)
	assert.Equal(t, models.SchemaString, schema.Properties["clarifying_questions"].Items.Type)
}

func TestTextAnalysisPromptEmptyCatalog(t *testing.T) {
	prompt, _ := TextAnalysisPrompt("bread", nil, nil)
	assert.Contains(t, prompt, "allergen IDs: .")
	assert.Contains(t, prompt, "\n[]\n")
}

func TestPredictiveAnalyticsPrompt(t *testing.T) {
	ts := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	logs := []models.Document{
		{
			"timestamp":               ts,
			"foodIntake":              "Pad thai",
			"symptomsExperienced":     []any{"hives", "itching"},
			"severity":                "moderate",
			"potentialExposureSource": "restaurant",
		},
		{"timestamp": "2024-03-03"},
	}

	prompt, schema := PredictiveAnalyticsPrompt(logs)

	assert.Contains(t, prompt, "Date: 2024-03-02T18:00:00Z, Food: Pad thai, Symptoms: hives, itching, Severity: moderate, Source: restaurant")
	assert.Contains(t, prompt, "Date: 2024-03-03, Food: N/A, Symptoms: , Severity: N/A, Source: N/A")
	assert.ElementsMatch(t, []string{"patterns", "suggestions"}, schema.Required)
	assert.Equal(t, models.SchemaArray, schema.Properties["patterns"].Type)
}

func TestAllergenPredictionPrompt(t *testing.T) {
	logs := []models.Document{
		{"type": "food_intake", "foodIntakeDate": "2024-03-01", "foodIntakeTime": "12:00", "foodIntakeText": "Lupin pasta"},
		{"type": "symptom", "symptomDate": "2024-03-01", "symptomTime": "13:00", "symptomsExperienced": []any{"hives"}, "severity": "mild"},
		{"type": "symptom", "symptomDate": "2024-03-02", "symptomTime": "09:00", "symptomsExperienced": []any{"Nil"}},
		{"type": "note", "text": "ignored"},
		{"type": "food_intake", "foodIntakeDate": "2024-03-03", "foodIntakeTime": "08:00"},
	}

	prompt, schema := AllergenPredictionPrompt(logs)

	foodIdx := strings.Index(prompt, "Food Intake on 2024-03-01 at 12:00: Lupin pasta")
	symIdx := strings.Index(prompt, "Symptoms on 2024-03-01 at 13:00: Symptoms: hives, Severity: mild, Source: N/A")
	nilIdx := strings.Index(prompt, "Symptoms on 2024-03-02 at 09:00: No symptoms reported (Nil).")
	assert.True(t, foodIdx >= 0 && symIdx > foodIdx && nilIdx > symIdx, prompt)
	assert.Contains(t, prompt, "Food Intake on 2024-03-03 at 08:00: N/A")
	assert.NotContains(t, prompt, "ignored")

	assert.Equal(t, models.SchemaArray, schema.Type)
	assert.ElementsMatch(t, []string{"allergen", "reasoning"}, schema.Items.Required)
}
