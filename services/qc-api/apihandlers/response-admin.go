package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opine-platform/opine-backend/pkg/apihelpers"
	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/opine-platform/opine-backend/pkg/verification"
	"github.com/gin-gonic/gin"
)

// Administrative corrections and response browsing, admin reviewers only.
func (h *HttpEndpoints) AddResponseAdminAPI(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin/responses")

	adminGroup.Use(mw.GetAndValidateReviewerJWT(h.tokenSignKey))
	adminGroup.Use(mw.IsInstanceIDInJWTAllowed(h.allowedInstanceIDs))
	adminGroup.Use(mw.IsAdminReviewer())
	{
		adminGroup.GET("/", h.getResponses)
		adminGroup.POST("/:responseID/revert", h.revertResponseToPending)
		adminGroup.POST("/:responseID/abandon", mw.RequirePayload(), h.markResponseAbandoned)
	}
}

func (h *HttpEndpoints) getResponses(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	query, err := apihelpers.ParsePaginatedQueryFromCtx(c)
	if err != nil {
		slog.Error("failed to parse paginated query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	responses, paginationInfo, err := h.responseDBConn.GetResponses(token.InstanceID, query.Filter, query.Sort, query.Page, query.Limit)
	if err != nil {
		slog.Error("error fetching responses", slog.String("instanceID", token.InstanceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"responses":  responses,
		"pagination": paginationInfo,
	})
}

func (h *HttpEndpoints) revertResponseToPending(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	responseID := c.Param("responseID")

	updated, err := verification.RevertToPending(token.InstanceID, responseID)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case errors.Is(err, verification.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "response is not in a resolved state"})
		default:
			slog.Error("error reverting response", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error reverting response"})
		}
		return
	}

	slog.Info("response reverted to pending", slog.String("instanceID", token.InstanceID), slog.String("reviewerID", token.Subject), slog.String("responseID", responseID))

	c.JSON(http.StatusOK, gin.H{"status": updated.Status})
}

func (h *HttpEndpoints) markResponseAbandoned(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.ReviewerClaims)

	responseID := c.Param("responseID")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := verification.MarkAbandoned(token.InstanceID, responseID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		case errors.Is(err, verification.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "response already resolved"})
		default:
			slog.Error("error abandoning response", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error abandoning response"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "response abandoned"})
}
