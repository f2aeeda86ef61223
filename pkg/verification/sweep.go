package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opine-platform/opine-backend/pkg/verification/types"
)

// SweepOrphanedAssignments deletes queue entries whose response left
// Pending_Approval through a path that did not also update the index
// (bulk correction scripts mostly). It streams the join and defers the
// batched deletes until the cursor is closed, so a slow delete never holds
// the cursor open. Idempotent and safe to re-run after a crash.
func SweepOrphanedAssignments(ctx context.Context, instanceID string) (deleted int64, err error) {
	staleEntryIDs := []primitive.ObjectID{}

	err = responseDBService.FindAndExecuteOnAvailableAssignments(
		ctx,
		instanceID,
		bson.M{},
		false,
		func(entry types.AvailableAssignment, instanceID string) error {
			status, err := responseDBService.GetResponseStatusByID(instanceID, entry.ResponseRef)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					// response was deleted, entry is stale
					staleEntryIDs = append(staleEntryIDs, entry.ID)
					return nil
				}
				return err
			}
			if status != types.RESPONSE_STATUS_PENDING_APPROVAL {
				staleEntryIDs = append(staleEntryIDs, entry.ID)
			}
			return nil
		},
	)
	if err != nil {
		return 0, err
	}

	for start := 0; start < len(staleEntryIDs); start += SWEEP_DELETE_BATCH_SIZE {
		end := start + SWEEP_DELETE_BATCH_SIZE
		if end > len(staleEntryIDs) {
			end = len(staleEntryIDs)
		}

		count, err := responseDBService.DeleteAvailableAssignmentsByIDs(instanceID, staleEntryIDs[start:end])
		if err != nil {
			return deleted, err
		}
		deleted += count
	}

	if deleted > 0 {
		slog.Info("Removed orphaned available assignments", slog.String("instanceID", instanceID), slog.Int64("deleted", deleted))
	}
	return deleted, nil
}

// SweepExpiredLocks clears review assignments whose expiry has passed and
// flips the matching queue entries back to available. Claiming does not
// depend on this: an expired lock already counts as absent for the
// conditional claim write. The sweep keeps queue depth reporting accurate.
func SweepExpiredLocks(ctx context.Context, instanceID string) (cleared int64, err error) {
	expired, err := responseDBService.FindResponsesWithExpiredLocks(ctx, instanceID, time.Now())
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	for start := 0; start < len(expired); start += SWEEP_DELETE_BATCH_SIZE {
		end := start + SWEEP_DELETE_BATCH_SIZE
		if end > len(expired) {
			end = len(expired)
		}
		batch := expired[start:end]

		count, err := responseDBService.ClearReviewAssignments(instanceID, batch)
		if err != nil {
			return cleared, err
		}
		cleared += count

		if _, err := responseDBService.SetAvailableAssignmentsAvailable(instanceID, batch); err != nil {
			slog.Warn("Failed to reset claimed mirror on queue entries", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
		}
	}

	if cleared > 0 {
		slog.Info("Cleared expired review assignments", slog.String("instanceID", instanceID), slog.Int64("cleared", cleared))
	}
	return cleared, nil
}
