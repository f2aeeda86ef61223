package verification

import (
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

// ClaimFilter narrows which queue entries a reviewer is offered.
type ClaimFilter struct {
	SurveyKey string `json:"surveyKey,omitempty"`
	Mode      string `json:"mode,omitempty"`
	ACName    string `json:"acName,omitempty"`
}

func (f ClaimFilter) toQuery() bson.M {
	query := bson.M{}
	if f.SurveyKey != "" {
		query["surveyKey"] = f.SurveyKey
	}
	if f.Mode != "" {
		query["mode"] = f.Mode
	}
	if f.ACName != "" {
		query["acName"] = f.ACName
	}
	return query
}

// ClaimedAssignment is what a successful claim hands to the reviewer.
type ClaimedAssignment struct {
	Response  types.Response `json:"response"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// claimResponse attempts the conditional lock write on a single candidate
// and translates the driver's no-match result into ErrConflict: either
// another reviewer holds a live lock or the response left Pending_Approval.
func claimResponse(instanceID string, responseRef primitive.ObjectID, assignment types.ReviewAssignment, now time.Time) (types.Response, error) {
	claimed, err := responseDBService.AttachReviewAssignment(instanceID, responseRef, assignment, now)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return claimed, ErrConflict
	}
	return claimed, err
}

// ClaimNext hands the reviewer exactly one pending response under a
// time-boxed exclusive lock. Candidates are tried oldest and highest
// priority first; an ErrConflict on one candidate moves on to the next.
// The scan pages through the whole queue, so entries sitting behind
// currently locked heads stay reachable. Returns ErrEmptyQueue only when no
// candidate at all can be claimed.
func ClaimNext(instanceID string, reviewerID string, filter ClaimFilter) (*ClaimedAssignment, error) {
	query := filter.toQuery()

	for skip := int64(0); ; skip += CLAIM_CANDIDATE_BATCH_SIZE {
		candidates, err := responseDBService.GetClaimCandidates(instanceID, query, skip, CLAIM_CANDIDATE_BATCH_SIZE)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		for _, candidate := range candidates {
			assignment := types.ReviewAssignment{
				AssignedTo: reviewerID,
				ExpiresAt:  now.Add(reviewAssignmentTTL),
			}

			claimed, err := claimResponse(instanceID, candidate.ResponseRef, assignment, now)
			if err != nil {
				if errors.Is(err, ErrConflict) {
					slog.Debug("Claim candidate no longer available", slog.String("instanceID", instanceID), slog.String("responseRef", candidate.ResponseRef.Hex()), slog.String("reviewerID", reviewerID))
					continue
				}
				return nil, err
			}

			// mirror for queue depth reporting, correctness does not depend on it
			if err := responseDBService.SetAvailableAssignmentStatus(instanceID, candidate.ResponseRef, types.ASSIGNMENT_STATUS_CLAIMED); err != nil {
				slog.Warn("Failed to mark available assignment as claimed", slog.String("instanceID", instanceID), slog.String("responseRef", candidate.ResponseRef.Hex()), slog.String("error", err.Error()))
			}

			return &ClaimedAssignment{
				Response:  claimed,
				ExpiresAt: assignment.ExpiresAt,
			}, nil
		}

		if int64(len(candidates)) < CLAIM_CANDIDATE_BATCH_SIZE {
			// scanned past the last page
			return nil, ErrEmptyQueue
		}
	}
}

// ReleaseAssignment is the explicit give-up path. Only the current holder
// may release the lock.
func ReleaseAssignment(instanceID string, responseID string, reviewerID string) error {
	resp, err := responseDBService.GetResponseByResponseID(instanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if resp.ReviewAssignment == nil {
		// nothing to release
		return nil
	}
	if resp.ReviewAssignment.AssignedTo != reviewerID {
		return ErrUnauthorized
	}

	modified, err := responseDBService.ClearReviewAssignment(instanceID, resp.ID, reviewerID)
	if err != nil {
		return err
	}
	if modified == 0 {
		// lock changed hands between read and write
		return ErrUnauthorized
	}

	if err := responseDBService.SetAvailableAssignmentStatus(instanceID, resp.ID, types.ASSIGNMENT_STATUS_AVAILABLE); err != nil {
		slog.Warn("Failed to mark available assignment as available", slog.String("instanceID", instanceID), slog.String("responseRef", resp.ID.Hex()), slog.String("error", err.Error()))
	}
	return nil
}

// SkipAssignment releases the lock and defers the response behind fresh
// submissions so the reviewer gets a different one next.
func SkipAssignment(instanceID string, responseID string, reviewerID string) error {
	resp, err := responseDBService.GetResponseByResponseID(instanceID, responseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if resp.ReviewAssignment == nil || resp.ReviewAssignment.AssignedTo != reviewerID {
		return ErrUnauthorized
	}

	modified, err := responseDBService.ClearReviewAssignment(instanceID, resp.ID, reviewerID)
	if err != nil {
		return err
	}
	if modified == 0 {
		// lock changed hands between read and write
		return ErrUnauthorized
	}

	return responseDBService.MarkAvailableAssignmentSkipped(instanceID, resp.ID)
}

// QueueStats reports queue depth for dashboards. Readers tolerate brief
// staleness of the claimed mirror.
type QueueStats struct {
	Available int64 `json:"available"`
	Claimed   int64 `json:"claimed"`
}

func GetQueueStats(instanceID string, filter ClaimFilter) (QueueStats, error) {
	stats := QueueStats{}

	query := filter.toQuery()
	query["status"] = types.ASSIGNMENT_STATUS_AVAILABLE
	available, err := responseDBService.GetAvailableAssignmentsCount(instanceID, query)
	if err != nil {
		return stats, err
	}

	query["status"] = types.ASSIGNMENT_STATUS_CLAIMED
	claimed, err := responseDBService.GetAvailableAssignmentsCount(instanceID, query)
	if err != nil {
		return stats, err
	}

	stats.Available = available
	stats.Claimed = claimed
	return stats, nil
}
