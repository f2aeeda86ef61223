package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/opine-platform/opine-backend/pkg/utils"
	"github.com/opine-platform/opine-backend/pkg/verification/types"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddInterviewerAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")

	authGroup.Use(mw.HasValidAPIKey(h.deviceAPIKeys))
	{
		authGroup.POST("/token", mw.RequirePayload(), h.getInterviewerToken)
	}
}

type InterviewerTokenReq struct {
	InstanceID    string `json:"instanceId"`
	InterviewerID string `json:"interviewerId"`
	InterviewMode string `json:"interviewMode"`
}

// Device apps exchange their API key for a short-lived interviewer token.
// The device enrollment process decides which interviewer and interview
// mode a device is set up for.
func (h *HttpEndpoints) getInterviewerToken(c *gin.Context) {
	var req InterviewerTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.InstanceID == "" || req.InterviewerID == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if !utils.ContainsString(h.allowedInstanceIDs, req.InstanceID) {
		slog.Warn("instanceID not allowed", slog.String("instanceID", req.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "instanceID not allowed"})
		return
	}

	if !types.IsValidInterviewMode(req.InterviewMode) {
		slog.Error("invalid interview mode", slog.String("mode", req.InterviewMode))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interview mode"})
		return
	}

	token, err := jwthandling.GenerateNewInterviewerToken(
		h.tokenExpiresIn,
		req.InterviewerID,
		req.InstanceID,
		req.InterviewMode,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("interviewer token issued", slog.String("instanceID", req.InstanceID), slog.String("interviewerID", req.InterviewerID), slog.String("mode", req.InterviewMode))

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresIn":   h.tokenExpiresIn.Seconds(),
	})
}
