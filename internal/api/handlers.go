// Package api holds the gin handlers of the SafeBite HTTP API.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/middleware"
	"github.com/safebite/safebite/backend/internal/models"
)

// HomeMessage is the plain-text body of GET /.
const HomeMessage = "SafeBite Backend API is running!"

var errNoUser = errors.New("no authenticated user in context")

// Home reports that the API is up.
func Home(c *gin.Context) {
	c.String(http.StatusOK, HomeMessage)
}

// userID returns the uid stored by middleware.AuthMiddleware.
func userID(c *gin.Context) (string, error) {
	uid := c.GetString(middleware.UserIDKey)
	if uid == "" {
		return "", errNoUser
	}
	return uid, nil
}

// bindDocument decodes a JSON object body, keeping integers exact. It writes
// the 400 response and returns false when the body is missing or not an
// object.
func bindDocument(c *gin.Context) (models.Document, bool) {
	if c.Request.Body == nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body"})
		return nil, false
	}
	doc, err := models.DecodeDocument(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body"})
		return nil, false
	}
	return doc, true
}

func internalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: msg})
}
