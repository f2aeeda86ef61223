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

// add response
func (dbService *ResponseDBService) AddResponse(instanceID string, response verificationTypes.Response) (verificationTypes.Response, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	ret, err := dbService.collectionResponses(instanceID).InsertOne(ctx, response)
	if err != nil {
		return response, err
	}
	response.ID = ret.InsertedID.(primitive.ObjectID)
	return response, nil
}

// get response by internal storage id
func (dbService *ResponseDBService) GetResponseByID(instanceID string, id primitive.ObjectID) (response verificationTypes.Response, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": id,
	}

	err = dbService.collectionResponses(instanceID).FindOne(ctx, filter).Decode(&response)
	return response, err
}

// get response by public response id
func (dbService *ResponseDBService) GetResponseByResponseID(instanceID string, responseID string) (response verificationTypes.Response, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"responseID": responseID,
	}

	err = dbService.collectionResponses(instanceID).FindOne(ctx, filter).Decode(&response)
	return response, err
}

// get paginated responses by query
func (dbService *ResponseDBService) GetResponses(instanceID string, filter bson.M, sort bson.M, page int64, limit int64) (responses []verificationTypes.Response, paginationInfo *PaginationInfos, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	totalCount, err := dbService.GetResponsesCount(instanceID, filter)
	if err != nil {
		return responses, nil, err
	}

	paginationInfo = prepPaginationInfos(
		totalCount,
		page,
		limit,
	)

	skip := (paginationInfo.CurrentPage - 1) * paginationInfo.PageSize

	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(paginationInfo.PageSize)
	collection := dbService.collectionResponses(instanceID)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return responses, nil, err
	}
	defer cursor.Close(ctx)

	err = cursor.All(ctx, &responses)
	if err != nil {
		return responses, nil, err
	}

	return responses, paginationInfo, nil
}

// get responses count by query
func (dbService *ResponseDBService) GetResponsesCount(instanceID string, filter bson.M) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionResponses(instanceID).CountDocuments(ctx, filter)
}

// AttachReviewAssignment atomically writes the review lock onto the
// response, conditioned on the response still being pending and currently
// unlocked (lock absent or expired). This conditional write is the mutual
// exclusion primitive for the claim protocol: a lost race surfaces as
// mongo.ErrNoDocuments.
func (dbService *ResponseDBService) AttachReviewAssignment(
	instanceID string,
	responseRef primitive.ObjectID,
	assignment verificationTypes.ReviewAssignment,
	now time.Time,
) (response verificationTypes.Response, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id":    responseRef,
		"status": verificationTypes.RESPONSE_STATUS_PENDING_APPROVAL,
		"$or": bson.A{
			bson.M{"reviewAssignment": nil},
			bson.M{"reviewAssignment.expiresAt": bson.M{"$lte": now}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"reviewAssignment": assignment,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = dbService.collectionResponses(instanceID).FindOneAndUpdate(ctx, filter, update, opts).Decode(&response)
	return response, err
}

// ClearReviewAssignment removes the lock only if it is held by the given
// reviewer.
func (dbService *ResponseDBService) ClearReviewAssignment(instanceID string, responseRef primitive.ObjectID, reviewerID string) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id":                         responseRef,
		"reviewAssignment.assignedTo": reviewerID,
	}
	update := bson.M{
		"$unset": bson.M{
			"reviewAssignment": "",
		},
	}

	res, err := dbService.collectionResponses(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ApplyVerdict transitions the response out of Pending_Approval and writes
// the verification outcome in one conditional update. Zero matched
// documents means the response was already resolved (or never existed).
func (dbService *ResponseDBService) ApplyVerdict(
	instanceID string,
	responseRef primitive.ObjectID,
	newStatus string,
	verificationData verificationTypes.VerificationData,
) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id":    responseRef,
		"status": verificationTypes.RESPONSE_STATUS_PENDING_APPROVAL,
	}
	update := bson.M{
		"$set": bson.M{
			"status":           newStatus,
			"verificationData": verificationData,
		},
		"$unset": bson.M{
			"reviewAssignment": "",
		},
	}

	res, err := dbService.collectionResponses(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RevertResponseToPending is the administrative correction path from a
// terminal verdict back into the review queue.
func (dbService *ResponseDBService) RevertResponseToPending(instanceID string, responseRef primitive.ObjectID) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": responseRef,
		"status": bson.M{
			"$in": bson.A{
				verificationTypes.RESPONSE_STATUS_APPROVED,
				verificationTypes.RESPONSE_STATUS_REJECTED,
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"status": verificationTypes.RESPONSE_STATUS_PENDING_APPROVAL,
		},
		"$unset": bson.M{
			"reviewAssignment": "",
			"verificationData": "",
		},
	}

	res, err := dbService.collectionResponses(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkResponseAbandoned moves a pending response into the abandoned state.
func (dbService *ResponseDBService) MarkResponseAbandoned(instanceID string, responseRef primitive.ObjectID, reason string) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id":    responseRef,
		"status": verificationTypes.RESPONSE_STATUS_PENDING_APPROVAL,
	}
	update := bson.M{
		"$set": bson.M{
			"status":        verificationTypes.RESPONSE_STATUS_ABANDONED,
			"abandonReason": reason,
		},
		"$unset": bson.M{
			"reviewAssignment": "",
		},
	}

	res, err := dbService.collectionResponses(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindResponsesWithExpiredLocks returns the storage ids of pending
// responses whose review lock expiry has passed.
func (dbService *ResponseDBService) FindResponsesWithExpiredLocks(ctx context.Context, instanceID string, now time.Time) (ids []primitive.ObjectID, err error) {
	filter := bson.M{
		"status":                     verificationTypes.RESPONSE_STATUS_PENDING_APPROVAL,
		"reviewAssignment.expiresAt": bson.M{"$lte": now},
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := dbService.collectionResponses(instanceID).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err = cursor.Decode(&doc); err != nil {
			slog.Error("Error while decoding response id", slog.String("error", err.Error()))
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// ClearReviewAssignments unsets the lock on the given responses regardless
// of holder, used by the expiry sweep.
func (dbService *ResponseDBService) ClearReviewAssignments(instanceID string, responseRefs []primitive.ObjectID) (modified int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": bson.M{"$in": responseRefs},
	}
	update := bson.M{
		"$unset": bson.M{
			"reviewAssignment": "",
		},
	}

	res, err := dbService.collectionResponses(instanceID).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GetResponseStatusByID fetches only the status of a response, used by the
// consistency sweep's join.
func (dbService *ResponseDBService) GetResponseStatusByID(instanceID string, responseRef primitive.ObjectID) (status string, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": responseRef,
	}
	opts := options.FindOne().SetProjection(bson.M{"status": 1})

	var doc struct {
		Status string `bson:"status"`
	}
	err = dbService.collectionResponses(instanceID).FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		return "", err
	}
	return doc.Status, nil
}

// delete response by id
func (dbService *ResponseDBService) DeleteResponseByID(instanceID string, responseRef primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"_id": responseRef,
	}

	res, err := dbService.collectionResponses(instanceID).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return err
}
