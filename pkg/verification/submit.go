package verification

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

// SubmitResponse stores a newly collected interview response in
// Pending_Approval and creates its queue entry so reviewers can pick it up.
func SubmitResponse(instanceID string, response types.Response) (types.Response, error) {
	if !types.IsValidInterviewMode(response.Mode) {
		return response, fmt.Errorf("invalid interview mode: %s", response.Mode)
	}
	if response.SurveyKey == "" {
		return response, errors.New("surveyKey is required")
	}

	if response.ResponseID == "" {
		response.ResponseID = uuid.NewString()
	} else {
		_, err := responseDBService.GetResponseByResponseID(instanceID, response.ResponseID)
		if err == nil {
			return response, ErrDuplicateSubmission
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return response, err
		}
	}

	response.Status = types.RESPONSE_STATUS_PENDING_APPROVAL
	response.CreatedAt = time.Now()
	response.VerificationData = nil
	response.ReviewAssignment = nil
	// call status only makes sense for telephonic interviews
	if response.Mode != types.INTERVIEW_MODE_CATI {
		response.CallStatus = ""
	}

	saved, err := responseDBService.AddResponse(instanceID, response)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return response, ErrDuplicateSubmission
		}
		return response, err
	}

	err = responseDBService.UpsertAvailableAssignment(instanceID, types.AvailableAssignment{
		ResponseRef:   saved.ID,
		SurveyKey:     saved.SurveyKey,
		InterviewerID: saved.InterviewerID,
		Status:        types.ASSIGNMENT_STATUS_AVAILABLE,
		Mode:          saved.Mode,
		ACName:        saved.ACName,
		Priority:      types.ASSIGNMENT_PRIORITY_FRESH,
		CreatedAt:     saved.CreatedAt,
	})
	if err != nil {
		// submission is authoritative, a missing queue entry needs operator attention
		slog.Error("Failed to create available assignment for new response", slog.String("instanceID", instanceID), slog.String("responseID", saved.ResponseID), slog.String("error", err.Error()))
	}

	return saved, nil
}
