package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/service"
	"github.com/safebite/safebite/backend/internal/types"
)

type LogHandler struct {
	logService service.ILogService
}

func NewLogHandler(logService service.ILogService) *LogHandler {
	return &LogHandler{logService: logService}
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	logs := router.Group("/user/logs")
	logs.Use(auth)
	{
		logs.GET("", h.ListLogs)
		logs.POST("", h.AddLog)
	}
}

// ListLogs returns the caller's entries oldest first.
func (h *LogHandler) ListLogs(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	logs, err := h.logService.ListLogs(c.Request.Context(), uid)
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to list logs")
		internalError(c, "Failed to get logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *LogHandler) AddLog(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	body, ok := bindDocument(c)
	if !ok {
		return
	}

	id, err := h.logService.AddLog(c.Request.Context(), uid, body)
	if err != nil {
		logging.FromGin(c).WithError(err).Error("failed to add log")
		internalError(c, "Failed to add log")
		return
	}
	c.JSON(http.StatusCreated, types.LogCreatedResponse{Message: "Log added successfully", ID: id})
}
