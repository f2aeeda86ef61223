package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddReviewerAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")

	authGroup.Use(mw.GetAndValidateReviewerJWT(h.tokenSignKey))
	authGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		authGroup.POST("/token/renew", h.renewReviewerToken)
	}
}

// Review sessions regularly outlive the token lifetime, so the UI renews
// the token in the background while the reviewer keeps working.
func (h *HttpEndpoints) renewReviewerToken(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	newToken, err := jwthandling.GenerateNewReviewerToken(
		h.tokenExpiresIn,
		token.Subject,
		token.InstanceID,
		token.IsAdmin,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("reviewer token renewed", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": newToken,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
	})
}
