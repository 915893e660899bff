package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/service"
)

// UserIDKey is the gin context key holding the verified caller id.
const UserIDKey = "user_id"

const bearerPrefix = "Bearer "

// AuthMiddleware verifies the bearer token on every request and stores the
// caller's uid under UserIDKey. Failures never reveal why the token was
// rejected.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization token required"})
			return
		}

		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		uid, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logging.FromGin(c).WithError(err).Info("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, uid)
		c.Next()
	}
}
