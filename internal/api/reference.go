package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/store"
	"github.com/safebite/safebite/backend/internal/types"
)

// ReferenceHandler serves the public allergen and educational data.
type ReferenceHandler struct {
	referenceService service.IReferenceService
}

func NewReferenceHandler(referenceService service.IReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/allergens", h.ListAllergens)
	router.GET("/allergens/:id", h.GetAllergen)
	router.GET("/educational-resources", h.ListEducationalResources)
}

func (h *ReferenceHandler) ListAllergens(c *gin.Context) {
	allergens, err := h.referenceService.ListAllergens(c.Request.Context())
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to list allergens")
		internalError(c, "Failed to get allergens")
		return
	}
	c.JSON(http.StatusOK, allergens)
}

func (h *ReferenceHandler) GetAllergen(c *gin.Context) {
	allergen, err := h.referenceService.GetAllergen(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "Allergen not found"})
		return
	}
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to get allergen")
		internalError(c, "Failed to get allergen")
		return
	}
	c.JSON(http.StatusOK, allergen)
}

func (h *ReferenceHandler) ListEducationalResources(c *gin.Context) {
	resources, err := h.referenceService.ListEducationalResources(c.Request.Context())
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to list educational resources")
		internalError(c, "Failed to get educational resources")
		return
	}
	c.JSON(http.StatusOK, resources)
}
