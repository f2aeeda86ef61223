package response

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	verificationTypes "github.com/opine-platform/opine-backend/pkg/verification/types"
)

// UpsertAvailableAssignment creates or refreshes the queue entry for a
// pending response. The responseRef unique index makes this idempotent.
func (dbService *ResponseDBService) UpsertAvailableAssignment(instanceID string, entry verificationTypes.AvailableAssignment) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseRef": entry.ResponseRef,
	}
	update := bson.M{
		"$set": bson.M{
			"surveyKey":     entry.SurveyKey,
			"interviewerID": entry.InterviewerID,
			"status":        entry.Status,
			"mode":          entry.Mode,
			"acName":        entry.ACName,
			"priority":      entry.Priority,
			"updatedAt":     time.Now(),
		},
		"$setOnInsert": bson.M{
			"responseRef": entry.ResponseRef,
			"createdAt":   entry.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := dbService.collectionAvailableAssignments(instanceID).UpdateOne(ctx, filter, update, opts)
	return err
}

// delete queue entry by response reference
func (dbService *ResponseDBService) DeleteAvailableAssignmentByResponseRef(instanceID string, responseRef primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseRef": responseRef,
	}

	res, err := dbService.collectionAvailableAssignments(instanceID).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetClaimCandidates returns one page of queue entries matching the filter,
// oldest and highest priority first. Entry status is not part of the filter:
// the entry status mirror can be stale, the authoritative lock check happens
// in the conditional write on the response.
func (dbService *ResponseDBService) GetClaimCandidates(instanceID string, filter bson.M, skip int64, limit int64) (entries []verificationTypes.AvailableAssignment, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "priority", Value: 1},
			{Key: "createdAt", Value: 1},
		}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := dbService.collectionAvailableAssignments(instanceID).Find(ctx, filter, opts)
	if err != nil {
		return entries, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &entries)
	return entries, err
}

// SetAvailableAssignmentStatus updates the claimed/available mirror on the
// queue entry, used for queue depth reporting only.
func (dbService *ResponseDBService) SetAvailableAssignmentStatus(instanceID string, responseRef primitive.ObjectID, status string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseRef": responseRef,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}

	_, err := dbService.collectionAvailableAssignments(instanceID).UpdateOne(ctx, filter, update)
	return err
}

// MarkAvailableAssignmentSkipped defers the entry behind fresh submissions.
func (dbService *ResponseDBService) MarkAvailableAssignmentSkipped(instanceID string, responseRef primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseRef": responseRef,
	}
	update := bson.M{
		"$set": bson.M{
			"status":        verificationTypes.ASSIGNMENT_STATUS_AVAILABLE,
			"priority":      verificationTypes.ASSIGNMENT_PRIORITY_SKIPPED,
			"lastSkippedAt": time.Now(),
			"updatedAt":     time.Now(),
		},
	}

	_, err := dbService.collectionAvailableAssignments(instanceID).UpdateOne(ctx, filter, update)
	return err
}

// SetAvailableAssignmentsAvailable flips the claimed mirror back for the
// given responses, used by the expiry sweep.
func (dbService *ResponseDBService) SetAvailableAssignmentsAvailable(instanceID string, responseRefs []primitive.ObjectID) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseRef": bson.M{"$in": responseRefs},
		"status":      verificationTypes.ASSIGNMENT_STATUS_CLAIMED,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    verificationTypes.ASSIGNMENT_STATUS_AVAILABLE,
			"updatedAt": time.Now(),
		},
	}

	res, err := dbService.collectionAvailableAssignments(instanceID).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// get queue entry count by query
func (dbService *ResponseDBService) GetAvailableAssignmentsCount(instanceID string, filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionAvailableAssignments(instanceID).CountDocuments(ctx, filter)
}

// execute on queue entries by query
func (dbService *ResponseDBService) FindAndExecuteOnAvailableAssignments(
	ctx context.Context,
	instanceID string,
	filter bson.M,
	returnOnError bool,
	fn func(entry verificationTypes.AvailableAssignment, instanceID string) error,
) error {
	cursor, err := dbService.collectionAvailableAssignments(instanceID).Find(ctx, filter)
	if err != nil {
		return err
	}

	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var entry verificationTypes.AvailableAssignment
		if err = cursor.Decode(&entry); err != nil {
			slog.Error("Error while decoding available assignment", slog.String("error", err.Error()))
			continue
		}

		if err = fn(entry, instanceID); err != nil {
			slog.Error("Error while executing function on available assignment", slog.String("entryID", entry.ID.Hex()), slog.String("error", err.Error()))
			if returnOnError {
				return err
			}
			continue
		}
	}
	return cursor.Err()
}

// DeleteAvailableAssignmentsByIDs removes a batch of queue entries.
func (dbService *ResponseDBService) DeleteAvailableAssignmentsByIDs(instanceID string, ids []primitive.ObjectID) (deleted int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": bson.M{"$in": ids},
	}

	res, err := dbService.collectionAvailableAssignments(instanceID).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
