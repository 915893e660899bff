package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/middleware"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/types"
)

// InsightHandler serves the Gemini-backed analysis endpoints.
type InsightHandler struct {
	insightService service.IInsightService
}

func NewInsightHandler(insightService service.IInsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

func (h *InsightHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/analyze-text", auth, h.AnalyzeText)
	router.GET("/predictive-analytics", auth, h.PredictiveAnalytics)
	router.GET("/predict-allergen", auth, h.PredictAllergen)
}

func isGeminiFailure(err error) bool {
	return errors.Is(err, service.ErrGeneration) || errors.Is(err, service.ErrUnexpectedFormat)
}

func (h *InsightHandler) AnalyzeText(c *gin.Context) {
	var req types.AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "No text provided for analysis"})
		return
	}

	result, err := h.insightService.AnalyzeText(c.Request.Context(), req.Text, req.UserAllergens)
	if err != nil {
		logging.FromGin(c).WithError(err).Error("text analysis failed")
		if isGeminiFailure(err) {
			internalError(c, "Gemini analysis failed or returned unexpected format.")
			return
		}
		internalError(c, "NLP analysis failed")
		return
	}
	c.JSON(http.StatusOK, types.AnalysisResponse{AnalysisResult: result})
}

func (h *InsightHandler) PredictiveAnalytics(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	insights, err := h.insightService.PredictiveAnalytics(c.Request.Context(), uid)
	if err != nil {
		logging.FromGin(c).WithError(err).Error("predictive analytics failed")
		if isGeminiFailure(err) {
			c.JSON(http.StatusInternalServerError, service.PredictiveInsights{
				Patterns:    []string{},
				Suggestions: []string{},
				Message:     service.MsgInsightsFailed,
			})
			return
		}
		internalError(c, "Predictive analytics failed")
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (h *InsightHandler) PredictAllergen(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	prediction, err := h.insightService.PredictAllergens(c.Request.Context(), uid)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, prediction)
	case errors.Is(err, service.ErrUnexpectedFormat):
		logging.FromGin(c).WithError(err).Error("allergen prediction returned unexpected format")
		c.JSON(http.StatusInternalServerError, service.AllergenPrediction{
			PredictedAllergens: []any{},
			Message:            service.MsgPredictBadFormat,
		})
	case errors.Is(err, service.ErrGeneration):
		logging.FromGin(c).WithError(err).Error("allergen prediction failed")
		c.JSON(http.StatusInternalServerError, service.AllergenPrediction{
			PredictedAllergens: []any{},
			Message:            service.MsgPredictFailed,
		})
	default:
		logging.FromGin(c).WithError(err).Error("allergen prediction failed")
		internalError(c, "Failed to predict allergens")
	}
}
