package verification

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

// mockResponseStore keeps responses and queue entries in memory and mirrors
// the conditional update semantics of the response DB service, so the
// workflow can be driven without a database.
type mockResponseStore struct {
	responses map[primitive.ObjectID]*types.Response
	entries   map[primitive.ObjectID]*types.AvailableAssignment // keyed by responseRef

	// invoked after a response read, lets tests mutate state between the
	// read and the following conditional write
	afterResponseRead func()
}

var _ ResponseStore = (*mockResponseStore)(nil)

func newMockResponseStore() *mockResponseStore {
	return &mockResponseStore{
		responses: map[primitive.ObjectID]*types.Response{},
		entries:   map[primitive.ObjectID]*types.AvailableAssignment{},
	}
}

// addPendingResponse stores a pending response together with its queue
// entry, the state a fresh submission leaves behind.
func (s *mockResponseStore) addPendingResponse(responseID string, surveyKey string, mode string, createdAt time.Time, priority int) primitive.ObjectID {
	id := primitive.NewObjectID()
	s.responses[id] = &types.Response{
		ID:         id,
		ResponseID: responseID,
		SurveyKey:  surveyKey,
		Mode:       mode,
		Status:     types.RESPONSE_STATUS_PENDING_APPROVAL,
		CreatedAt:  createdAt,
	}
	s.entries[id] = &types.AvailableAssignment{
		ID:          primitive.NewObjectID(),
		ResponseRef: id,
		SurveyKey:   surveyKey,
		Status:      types.ASSIGNMENT_STATUS_AVAILABLE,
		Mode:        mode,
		Priority:    priority,
		CreatedAt:   createdAt,
	}
	return id
}

func (s *mockResponseStore) lockResponse(id primitive.ObjectID, reviewerID string, expiresAt time.Time) {
	s.responses[id].ReviewAssignment = &types.ReviewAssignment{
		AssignedTo: reviewerID,
		ExpiresAt:  expiresAt,
	}
	s.entries[id].Status = types.ASSIGNMENT_STATUS_CLAIMED
}

func (s *mockResponseStore) AddResponse(instanceID string, response types.Response) (types.Response, error) {
	response.ID = primitive.NewObjectID()
	stored := response
	s.responses[response.ID] = &stored
	return response, nil
}

func (s *mockResponseStore) GetResponseByResponseID(instanceID string, responseID string) (types.Response, error) {
	for _, resp := range s.responses {
		if resp.ResponseID == responseID {
			found := *resp
			if s.afterResponseRead != nil {
				s.afterResponseRead()
			}
			return found, nil
		}
	}
	return types.Response{}, mongo.ErrNoDocuments
}

func (s *mockResponseStore) GetResponseStatusByID(instanceID string, responseRef primitive.ObjectID) (string, error) {
	resp, ok := s.responses[responseRef]
	if !ok {
		return "", mongo.ErrNoDocuments
	}
	return resp.Status, nil
}

func (s *mockResponseStore) AttachReviewAssignment(instanceID string, responseRef primitive.ObjectID, assignment types.ReviewAssignment, now time.Time) (types.Response, error) {
	resp, ok := s.responses[responseRef]
	if !ok || resp.Status != types.RESPONSE_STATUS_PENDING_APPROVAL || resp.ReviewAssignment.IsLive(now) {
		return types.Response{}, mongo.ErrNoDocuments
	}
	lock := assignment
	resp.ReviewAssignment = &lock
	return *resp, nil
}

func (s *mockResponseStore) ClearReviewAssignment(instanceID string, responseRef primitive.ObjectID, reviewerID string) (int64, error) {
	resp, ok := s.responses[responseRef]
	if !ok || resp.ReviewAssignment == nil || resp.ReviewAssignment.AssignedTo != reviewerID {
		return 0, nil
	}
	resp.ReviewAssignment = nil
	return 1, nil
}

func (s *mockResponseStore) ClearReviewAssignments(instanceID string, responseRefs []primitive.ObjectID) (int64, error) {
	var modified int64
	for _, ref := range responseRefs {
		resp, ok := s.responses[ref]
		if !ok || resp.ReviewAssignment == nil {
			continue
		}
		resp.ReviewAssignment = nil
		modified++
	}
	return modified, nil
}

func (s *mockResponseStore) FindResponsesWithExpiredLocks(ctx context.Context, instanceID string, now time.Time) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{}
	for id, resp := range s.responses {
		if resp.Status != types.RESPONSE_STATUS_PENDING_APPROVAL || resp.ReviewAssignment == nil {
			continue
		}
		if !resp.ReviewAssignment.IsLive(now) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *mockResponseStore) ApplyVerdict(instanceID string, responseRef primitive.ObjectID, newStatus string, verificationData types.VerificationData) (int64, error) {
	resp, ok := s.responses[responseRef]
	if !ok || resp.Status != types.RESPONSE_STATUS_PENDING_APPROVAL {
		return 0, nil
	}
	data := verificationData
	resp.Status = newStatus
	resp.VerificationData = &data
	resp.ReviewAssignment = nil
	return 1, nil
}

func (s *mockResponseStore) RevertResponseToPending(instanceID string, responseRef primitive.ObjectID) (int64, error) {
	resp, ok := s.responses[responseRef]
	if !ok || (resp.Status != types.RESPONSE_STATUS_APPROVED && resp.Status != types.RESPONSE_STATUS_REJECTED) {
		return 0, nil
	}
	resp.Status = types.RESPONSE_STATUS_PENDING_APPROVAL
	resp.VerificationData = nil
	resp.ReviewAssignment = nil
	return 1, nil
}

func (s *mockResponseStore) MarkResponseAbandoned(instanceID string, responseRef primitive.ObjectID, reason string) (int64, error) {
	resp, ok := s.responses[responseRef]
	if !ok || resp.Status != types.RESPONSE_STATUS_PENDING_APPROVAL {
		return 0, nil
	}
	resp.Status = types.RESPONSE_STATUS_ABANDONED
	resp.AbandonReason = reason
	resp.ReviewAssignment = nil
	return 1, nil
}

func (s *mockResponseStore) UpsertAvailableAssignment(instanceID string, entry types.AvailableAssignment) error {
	existing, ok := s.entries[entry.ResponseRef]
	if ok {
		existing.SurveyKey = entry.SurveyKey
		existing.InterviewerID = entry.InterviewerID
		existing.Status = entry.Status
		existing.Mode = entry.Mode
		existing.ACName = entry.ACName
		existing.Priority = entry.Priority
		existing.UpdatedAt = time.Now()
		return nil
	}
	stored := entry
	stored.ID = primitive.NewObjectID()
	s.entries[entry.ResponseRef] = &stored
	return nil
}

func (s *mockResponseStore) DeleteAvailableAssignmentByResponseRef(instanceID string, responseRef primitive.ObjectID) error {
	if _, ok := s.entries[responseRef]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(s.entries, responseRef)
	return nil
}

func matchesEntryFilter(entry types.AvailableAssignment, filter bson.M) bool {
	if surveyKey, ok := filter["surveyKey"].(string); ok && entry.SurveyKey != surveyKey {
		return false
	}
	if mode, ok := filter["mode"].(string); ok && entry.Mode != mode {
		return false
	}
	if acName, ok := filter["acName"].(string); ok && entry.ACName != acName {
		return false
	}
	if status, ok := filter["status"].(string); ok && entry.Status != status {
		return false
	}
	return true
}

func (s *mockResponseStore) sortedEntries(filter bson.M) []types.AvailableAssignment {
	matching := []types.AvailableAssignment{}
	for _, entry := range s.entries {
		if matchesEntryFilter(*entry, filter) {
			matching = append(matching, *entry)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].Priority != matching[j].Priority {
			return matching[i].Priority < matching[j].Priority
		}
		return matching[i].CreatedAt.Before(matching[j].CreatedAt)
	})
	return matching
}

func (s *mockResponseStore) GetClaimCandidates(instanceID string, filter bson.M, skip int64, limit int64) ([]types.AvailableAssignment, error) {
	matching := s.sortedEntries(filter)
	if skip >= int64(len(matching)) {
		return nil, nil
	}
	matching = matching[skip:]
	if limit < int64(len(matching)) {
		matching = matching[:limit]
	}
	return matching, nil
}

func (s *mockResponseStore) SetAvailableAssignmentStatus(instanceID string, responseRef primitive.ObjectID, status string) error {
	if entry, ok := s.entries[responseRef]; ok {
		entry.Status = status
		entry.UpdatedAt = time.Now()
	}
	return nil
}

func (s *mockResponseStore) MarkAvailableAssignmentSkipped(instanceID string, responseRef primitive.ObjectID) error {
	if entry, ok := s.entries[responseRef]; ok {
		entry.Status = types.ASSIGNMENT_STATUS_AVAILABLE
		entry.Priority = types.ASSIGNMENT_PRIORITY_SKIPPED
		entry.LastSkippedAt = time.Now()
		entry.UpdatedAt = time.Now()
	}
	return nil
}

func (s *mockResponseStore) SetAvailableAssignmentsAvailable(instanceID string, responseRefs []primitive.ObjectID) (int64, error) {
	var modified int64
	for _, ref := range responseRefs {
		entry, ok := s.entries[ref]
		if !ok || entry.Status != types.ASSIGNMENT_STATUS_CLAIMED {
			continue
		}
		entry.Status = types.ASSIGNMENT_STATUS_AVAILABLE
		entry.UpdatedAt = time.Now()
		modified++
	}
	return modified, nil
}

func (s *mockResponseStore) GetAvailableAssignmentsCount(instanceID string, filter bson.M) (int64, error) {
	return int64(len(s.sortedEntries(filter))), nil
}

func (s *mockResponseStore) FindAndExecuteOnAvailableAssignments(ctx context.Context, instanceID string, filter bson.M, returnOnError bool, fn func(entry types.AvailableAssignment, instanceID string) error) error {
	for _, entry := range s.sortedEntries(filter) {
		if err := fn(entry, instanceID); err != nil && returnOnError {
			return err
		}
	}
	return nil
}

func (s *mockResponseStore) DeleteAvailableAssignmentsByIDs(instanceID string, ids []primitive.ObjectID) (int64, error) {
	toDelete := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		toDelete[id] = true
	}

	var deleted int64
	for responseRef, entry := range s.entries {
		if toDelete[entry.ID] {
			delete(s.entries, responseRef)
			deleted++
		}
	}
	return deleted, nil
}
