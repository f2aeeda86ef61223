package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/opine-platform/opine-backend/pkg/verification"
	"github.com/opine-platform/opine-backend/pkg/verification/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddVerdictAPI(rg *gin.RouterGroup) {
	responsesGroup := rg.Group("/responses")

	responsesGroup.Use(mw.GetAndValidateReviewerJWT(h.tokenSignKey))
	responsesGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		responsesGroup.POST("/:responseID/verdict", mw.RequirePayload(), h.submitVerdict)
	}
}

func (h *HttpEndpoints) submitVerdict(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	responseID := c.Param("responseID")

	var req struct {
		Decision        string                   `json:"decision"`
		Criteria        types.VerificationChecks `json:"criteria"`
		Feedback        string                   `json:"feedback"`
		RejectionReason string                   `json:"rejectionReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := verification.SubmitVerdict(
		token.InstanceID,
		responseID,
		token.Subject,
		req.Decision,
		req.Criteria,
		req.Feedback,
		req.RejectionReason,
	)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case errors.Is(err, verification.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "response already resolved"})
		default:
			slog.Error("error submitting verdict", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error submitting verdict"})
		}
		return
	}

	slog.Info("verdict submitted", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("responseID", responseID), slog.String("status", updated.Status))

	c.JSON(http.StatusOK, gin.H{"status": updated.Status})
}
