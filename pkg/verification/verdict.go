package verification

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

const (
	VERDICT_DECISION_APPROVE = "approve"
	VERDICT_DECISION_REJECT  = "reject"
)

// SubmitVerdict resolves a pending response with the reviewer's decision.
// The underlying conditional update serializes concurrent verdicts: the
// second writer observes zero modified documents and gets ErrInvalidState.
func SubmitVerdict(
	instanceID string,
	responseID string,
	reviewerID string,
	decision string,
	criteria types.VerificationChecks,
	feedback string,
	rejectionReason string,
) (types.Response, error) {
	var newStatus string
	switch decision {
	case VERDICT_DECISION_APPROVE:
		newStatus = types.RESPONSE_STATUS_APPROVED
		rejectionReason = ""
	case VERDICT_DECISION_REJECT:
		newStatus = types.RESPONSE_STATUS_REJECTED
		if rejectionReason == "" {
			rejectionReason = types.REJECTION_REASON_MANUAL
		}
		if !types.IsValidRejectionReason(rejectionReason) {
			return types.Response{}, fmt.Errorf("invalid rejection reason: %s", rejectionReason)
		}
	default:
		return types.Response{}, fmt.Errorf("invalid verdict decision: %s", decision)
	}

	resp, err := responseDBService.GetResponseByResponseID(instanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Response{}, ErrNotFound
		}
		return types.Response{}, err
	}

	verificationData := types.VerificationData{
		ReviewerID:      reviewerID,
		ReviewedAt:      time.Now(),
		Criteria:        criteria,
		Feedback:        feedback,
		RejectionReason: rejectionReason,
	}

	modified, err := responseDBService.ApplyVerdict(instanceID, resp.ID, newStatus, verificationData)
	if err != nil {
		return types.Response{}, err
	}
	if modified == 0 {
		// already resolved by someone else or abandoned in the meantime
		return types.Response{}, ErrInvalidState
	}

	if err := responseDBService.DeleteAvailableAssignmentByResponseRef(instanceID, resp.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		// the sweep removes the orphaned entry on its next run
		slog.Warn("Failed to delete available assignment after verdict", slog.String("instanceID", instanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
	}

	resp.Status = newStatus
	resp.VerificationData = &verificationData
	resp.ReviewAssignment = nil
	return resp, nil
}

// RevertToPending is the administrative correction path: it moves an
// already resolved response back into the review queue. The re-created
// queue entry is deferred behind fresh submissions.
func RevertToPending(instanceID string, responseID string) (types.Response, error) {
	resp, err := responseDBService.GetResponseByResponseID(instanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Response{}, ErrNotFound
		}
		return types.Response{}, err
	}

	modified, err := responseDBService.RevertResponseToPending(instanceID, resp.ID)
	if err != nil {
		return types.Response{}, err
	}
	if modified == 0 {
		return types.Response{}, ErrInvalidState
	}

	err = responseDBService.UpsertAvailableAssignment(instanceID, types.AvailableAssignment{
		ResponseRef:   resp.ID,
		SurveyKey:     resp.SurveyKey,
		InterviewerID: resp.InterviewerID,
		Status:        types.ASSIGNMENT_STATUS_AVAILABLE,
		Mode:          resp.Mode,
		ACName:        resp.ACName,
		Priority:      types.ASSIGNMENT_PRIORITY_SKIPPED,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		slog.Error("Failed to re-create available assignment after revert", slog.String("instanceID", instanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
	}

	resp.Status = types.RESPONSE_STATUS_PENDING_APPROVAL
	resp.VerificationData = nil
	resp.ReviewAssignment = nil
	return resp, nil
}

// MarkAbandoned takes a pending response out of the workflow, e.g. after
// duplicate detection or a corrupt submission.
func MarkAbandoned(instanceID string, responseID string, reason string) error {
	resp, err := responseDBService.GetResponseByResponseID(instanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	modified, err := responseDBService.MarkResponseAbandoned(instanceID, resp.ID, reason)
	if err != nil {
		return err
	}
	if modified == 0 {
		return ErrInvalidState
	}

	if err := responseDBService.DeleteAvailableAssignmentByResponseRef(instanceID, resp.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Warn("Failed to delete available assignment after abandoning response", slog.String("instanceID", instanceID), slog.String("responseID", responseID), slog.String("error", err.Error()))
	}
	return nil
}
