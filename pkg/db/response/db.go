package response

import (
	"context"
	"log/slog"
	"time"

	"github.com/opine-platform/opine-backend/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_RESPONSES             = "responses"
	COLLECTION_NAME_AVAILABLE_ASSIGNMENTS = "availableAssignments"
)

type ResponseDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewResponseDBService(configs db.DBConfig) (*ResponseDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	responseDBSc := &ResponseDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	if configs.RunIndexCreation {
		if err := responseDBSc.ensureIndexes(); err != nil {
			slog.Error("Error ensuring indexes for response DB", slog.String("error", err.Error()))
		}
	}

	return responseDBSc, nil
}

func (dbService *ResponseDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_opineDB"
}

func (dbService *ResponseDBService) collectionResponses(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_RESPONSES)
}

func (dbService *ResponseDBService) collectionAvailableAssignments(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_AVAILABLE_ASSIGNMENTS)
}

func (dbService *ResponseDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *ResponseDBService) ensureIndexes() error {
	slog.Debug("Ensuring indexes for response DB")
	for _, instanceID := range dbService.InstanceIDs {
		err := dbService.CreateIndexesForResponsesCollection(instanceID)
		if err != nil {
			slog.Error("Error creating indexes for responses", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
		}

		err = dbService.CreateIndexesForAvailableAssignmentsCollection(instanceID)
		if err != nil {
			slog.Error("Error creating indexes for availableAssignments", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
		}
	}
	return nil
}

// GetCollectionIndexes lists the indexes currently present on the response
// and queue collections, keyed by collection name. Used by the sweep job to
// report missing indexes before they degrade claim latency.
func (dbService *ResponseDBService) GetCollectionIndexes(instanceID string) (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	indexes := map[string][]bson.M{}

	responseIndexes, err := db.ListCollectionIndexes(ctx, dbService.collectionResponses(instanceID))
	if err != nil {
		return nil, err
	}
	indexes[COLLECTION_NAME_RESPONSES] = responseIndexes

	assignmentIndexes, err := db.ListCollectionIndexes(ctx, dbService.collectionAvailableAssignments(instanceID))
	if err != nil {
		return nil, err
	}
	indexes[COLLECTION_NAME_AVAILABLE_ASSIGNMENTS] = assignmentIndexes

	return indexes, nil
}

func (dbService *ResponseDBService) CreateIndexesForResponsesCollection(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionResponses(instanceID)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "responseID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "reviewAssignment.expiresAt", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (dbService *ResponseDBService) CreateIndexesForAvailableAssignmentsCollection(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionAvailableAssignments(instanceID)
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "responseRef", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "priority", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "surveyKey", Value: 1},
				{Key: "mode", Value: 1},
				{Key: "acName", Value: 1},
			},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
