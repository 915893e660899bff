package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/service"
)

type AlertHandler struct {
	alertService service.IAlertService
}

func NewAlertHandler(alertService service.IAlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/alerts", auth, h.ListAlerts)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.alertService.ListAlerts(c.Request.Context()))
}
