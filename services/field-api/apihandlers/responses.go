package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/opine-platform/opine-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/opine-platform/opine-backend/pkg/jwt-handling"
	"github.com/opine-platform/opine-backend/pkg/utils"
	"github.com/opine-platform/opine-backend/pkg/verification"
	"github.com/opine-platform/opine-backend/pkg/verification/types"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func (h *HttpEndpoints) AddResponseSubmissionAPI(rg *gin.RouterGroup) {
	responsesGroup := rg.Group("/responses")

	responsesGroup.Use(mw.HasValidAPIKey(h.deviceAPIKeys))
	responsesGroup.Use(mw.GetAndValidateInterviewerJWT(h.tokenSignKey))
	{
		responsesGroup.POST("/", mw.RequirePayload(), h.submitResponse)
		responsesGroup.GET("/:responseID", h.getOwnResponse)
	}
}

func (h *HttpEndpoints) checkInstanceID(c *gin.Context, token *jwthandling.InterviewerClaims) bool {
	if !utils.ContainsString(h.allowedInstanceIDs, token.InstanceID) {
		slog.Warn("instanceID not allowed", slog.String("instanceID", token.InstanceID))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "instanceID not allowed"})
		return false
	}
	return true
}

func (h *HttpEndpoints) submitResponse(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.InterviewerClaims)

	if !h.checkInstanceID(c, token) {
		return
	}

	var req struct {
		ResponseID string         `json:"responseId"`
		SurveyKey  string         `json:"surveyKey"`
		Mode       string         `json:"mode"`
		Answers    []types.Answer `json:"answers"`
		ACName     string         `json:"acName"`
		CallStatus string         `json:"callStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = token.InterviewMode
	}

	saved, err := verification.SubmitResponse(token.InstanceID, types.Response{
		ResponseID:    req.ResponseID,
		SurveyKey:     req.SurveyKey,
		Mode:          mode,
		Answers:       req.Answers,
		ACName:        req.ACName,
		InterviewerID: token.Subject,
		CallStatus:    req.CallStatus,
	})
	if err != nil {
		if errors.Is(err, verification.ErrDuplicateSubmission) {
			c.JSON(http.StatusConflict, gin.H{"error": "response with this id already exists"})
			return
		}
		slog.Error("error submitting response", slog.String("instanceID", token.InstanceID), slog.String("interviewerID", token.Subject), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "error submitting response"})
		return
	}

	slog.Info("response submitted", slog.String("instanceID", token.InstanceID), slog.String("interviewerID", token.Subject), slog.String("responseID", saved.ResponseID), slog.String("surveyKey", saved.SurveyKey))

	c.JSON(http.StatusOK, gin.H{
		"responseId": saved.ResponseID,
		"status":     saved.Status,
	})
}

func (h *HttpEndpoints) getOwnResponse(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.InterviewerClaims)

	if !h.checkInstanceID(c, token) {
		return
	}

	responseID := c.Param("responseID")

	resp, err := h.responseDBConn.GetResponseByResponseID(token.InstanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
			return
		}
		slog.Error("error fetching response", slog.String("instanceID", token.InstanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching response"})
		return
	}

	// interviewers only see their own submissions
	if resp.InterviewerID != token.Subject {
		c.JSON(http.StatusNotFound, gin.H{"error": "response not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"responseId": resp.ResponseID,
		"status":     resp.Status,
		"createdAt":  resp.CreatedAt,
	})
}
