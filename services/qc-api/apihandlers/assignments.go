package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/opine-platform/opine-backend/pkg/verification"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAssignmentAPI(rg *gin.RouterGroup) {
	assignmentsGroup := rg.Group("/assignments")

	assignmentsGroup.Use(mw.GetAndValidateReviewerJWT(h.tokenSignKey))
	assignmentsGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	{
		assignmentsGroup.POST("/claim", h.claimNextAssignment)
		assignmentsGroup.POST("/:responseID/release", h.releaseAssignment)
		assignmentsGroup.POST("/:responseID/skip", h.skipAssignment)
		assignmentsGroup.GET("/stats", h.getQueueStats)
	}
}

func (h *HttpEndpoints) claimNextAssignment(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	var filter verification.ClaimFilter
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&filter); err != nil {
			slog.Error("failed to bind request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	claimed, err := verification.ClaimNext(token.InstanceID, token.Subject, filter)
	if err != nil {
		if errors.Is(err, verification.ErrEmptyQueue) {
			c.Status(http.StatusNoContent)
			return
		}
		slog.Error("error claiming next assignment", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error claiming next assignment"})
		return
	}

	slog.Debug("assignment claimed", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("responseID", claimed.Response.ResponseID))

	c.JSON(http.StatusOK, claimed)
}

func (h *HttpEndpoints) releaseAssignment(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	responseID := c.Param("responseID")

	err := verification.ReleaseAssignment(token.InstanceID, responseID, token.Subject)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case errors.Is(err, verification.ErrUnauthorized):
			slog.Warn("release attempted by non-holder", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("responseID", responseID))
			c.JSON(http.StatusForbidden, gin.H{"error": "assignment is held by a different reviewer"})
		default:
			slog.Error("error releasing assignment", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error releasing assignment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "assignment released"})
}

func (h *HttpEndpoints) skipAssignment(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	responseID := c.Param("responseID")

	err := verification.SkipAssignment(token.InstanceID, responseID, token.Subject)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case errors.Is(err, verification.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "assignment is held by a different reviewer"})
		default:
			slog.Error("error skipping assignment", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error skipping assignment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "assignment skipped"})
}

func (h *HttpEndpoints) getQueueStats(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	filter := verification.ClaimFilter{
		SurveyKey: c.DefaultQuery("surveyKey", ""),
		Mode:      c.DefaultQuery("mode", ""),
		ACName:    c.DefaultQuery("acName", ""),
	}

	stats, err := verification.GetQueueStats(token.InstanceID, filter)
	if err != nil {
		slog.Error("error fetching queue stats", slog.String("instanceID", token.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching queue stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
