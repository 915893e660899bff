package service

import (
	"context"

	"github.com/safebite/safebite/backend/internal/models"
)

// AlertService serves a fixed set of sample alerts. They are neither
// persisted nor filtered by the caller's allergens.
type AlertService struct {
	alerts []models.Alert
}

var _ IAlertService = (*AlertService)(nil)

func NewAlertService() *AlertService {
	return &AlertService{alerts: []models.Alert{
		{
			ID:                "alert1",
			Type:              "Recall",
			Title:             "Recall: Brand X Oat Milk",
			Description:       "Undeclared almond allergen found.",
			RelevantAllergens: []string{"almond"},
		},
		{
			ID:                "alert2",
			Type:              "Contamination",
			Title:             "Warning: Restaurant Y Update",
			Description:       "Reported cross-contamination risk for sesame.",
			RelevantAllergens: []string{"sesame"},
		},
	}}
}

func (s *AlertService) ListAlerts(context.Context) []models.Alert {
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}
