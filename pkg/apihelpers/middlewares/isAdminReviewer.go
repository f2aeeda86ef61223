package middlewares

import (
	"log/slog"
	"net/http"

	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

func IsAdminReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, ok := c.Get("validatedToken")
		if !ok {
			slog.Warn("IsAdminReviewer: validatedToken not found in context")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validatedToken not found in context"})
			return
		}
		parsedToken := tokenValue.(*jwthandling.ReviewerClaims)

		if !parsedToken.IsAdmin {
			slog.Warn("IsAdminReviewer Middleware: non admin reviewer tried to access admin endpoint", slog.String("instanceID", parsedToken.InstanceID), slog.String("reviewerID", parsedToken.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access to admin endpoint"})
			return
		}
	}
}
