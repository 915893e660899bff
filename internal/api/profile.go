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

type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	profile := router.Group("/user/profile")
	profile.Use(auth)
	{
		profile.GET("", h.GetProfile)
		profile.POST("", h.CreateProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "Profile not found"})
		return
	}
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to get profile")
		internalError(c, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	body, ok := bindDocument(c)
	if !ok {
		return
	}

	if err := h.profileService.CreateProfile(c.Request.Context(), uid, body); err != nil {
		logging.FromGin(c).WithError(err).Error("failed to create profile")
		internalError(c, "Failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, types.ProfileResponse{Message: "Profile created successfully", Profile: body})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	body, ok := bindDocument(c)
	if !ok {
		return
	}

	err = h.profileService.UpdateProfile(c.Request.Context(), uid, body)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "Profile not found"})
		return
	}
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to update profile")
		internalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, types.ProfileResponse{Message: "Profile updated successfully", Profile: body})
}
