package verification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

const (
	DEFAULT_REVIEW_ASSIGNMENT_TTL = 10 * time.Minute

	// page size for scanning claim candidates, a claim call keeps paging
	// until a candidate is won or the queue is exhausted
	CLAIM_CANDIDATE_BATCH_SIZE = 20

	// batch size for the consistency sweep's deletes
	SWEEP_DELETE_BATCH_SIZE = 500
)

// ResponseStore is the persistence surface the verification workflow runs
// on, implemented by the response DB service.
type ResponseStore interface {
	AddResponse(instanceID string, response types.Response) (types.Response, error)
	GetResponseByResponseID(instanceID string, responseID string) (types.Response, error)
	GetResponseStatusByID(instanceID string, responseRef primitive.ObjectID) (string, error)
	AttachReviewAssignment(instanceID string, responseRef primitive.ObjectID, assignment types.ReviewAssignment, now time.Time) (types.Response, error)
	ClearReviewAssignment(instanceID string, responseRef primitive.ObjectID, reviewerID string) (int64, error)
	ClearReviewAssignments(instanceID string, responseRefs []primitive.ObjectID) (int64, error)
	FindResponsesWithExpiredLocks(ctx context.Context, instanceID string, now time.Time) ([]primitive.ObjectID, error)
	ApplyVerdict(instanceID string, responseRef primitive.ObjectID, newStatus string, verificationData types.VerificationData) (int64, error)
	RevertResponseToPending(instanceID string, responseRef primitive.ObjectID) (int64, error)
	MarkResponseAbandoned(instanceID string, responseRef primitive.ObjectID, reason string) (int64, error)

	UpsertAvailableAssignment(instanceID string, entry types.AvailableAssignment) error
	DeleteAvailableAssignmentByResponseRef(instanceID string, responseRef primitive.ObjectID) error
	GetClaimCandidates(instanceID string, filter bson.M, skip int64, limit int64) ([]types.AvailableAssignment, error)
	SetAvailableAssignmentStatus(instanceID string, responseRef primitive.ObjectID, status string) error
	MarkAvailableAssignmentSkipped(instanceID string, responseRef primitive.ObjectID) error
	SetAvailableAssignmentsAvailable(instanceID string, responseRefs []primitive.ObjectID) (int64, error)
	GetAvailableAssignmentsCount(instanceID string, filter bson.M) (int64, error)
	FindAndExecuteOnAvailableAssignments(ctx context.Context, instanceID string, filter bson.M, returnOnError bool, fn func(entry types.AvailableAssignment, instanceID string) error) error
	DeleteAvailableAssignmentsByIDs(instanceID string, ids []primitive.ObjectID) (int64, error)
}

var (
	responseDBService   ResponseStore
	reviewAssignmentTTL time.Duration
)

func Init(
	responseDB ResponseStore,
	assignmentTTL time.Duration,
) {
	responseDBService = responseDB
	reviewAssignmentTTL = assignmentTTL
	if reviewAssignmentTTL <= 0 {
		reviewAssignmentTTL = DEFAULT_REVIEW_ASSIGNMENT_TTL
	}
}
