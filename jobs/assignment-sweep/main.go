package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/opine-platform/opine-backend/pkg/verification"
)

// Scheduled consistency pass over the available assignment index: bulk
// correction scripts rewrite response statuses directly, orphaning queue
// entries this job deletes. The exit code feeds operational alerting.
func main() {
	slog.Info("Starting assignment sweep job")
	start := time.Now()

	hadError := false
	for _, instanceID := range conf.InstanceIDs {
		slog.Debug("Start sweeping assignments for instance", slog.String("instanceID", instanceID))

		reportMissingIndexes(instanceID)

		deleted, err := verification.SweepOrphanedAssignments(context.Background(), instanceID)
		if err != nil {
			slog.Error("Failed to sweep orphaned assignments", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
			hadError = true
		} else {
			slog.Info("Orphaned assignment sweep finished", slog.String("instanceID", instanceID), slog.Int64("deleted", deleted))
		}

		if conf.SweepConfig.SkipExpiredLockSweep {
			continue
		}

		cleared, err := verification.SweepExpiredLocks(context.Background(), instanceID)
		if err != nil {
			slog.Error("Failed to sweep expired locks", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
			hadError = true
		} else {
			slog.Info("Expired lock sweep finished", slog.String("instanceID", instanceID), slog.Int64("cleared", cleared))
		}
	}

	slog.Info("Assignment sweep job completed", slog.String("duration", time.Since(start).String()))

	if hadError {
		os.Exit(1)
	}
}

// Sweeping a large instance on a collection without its indexes turns into
// a sequence of collection scans, so surface missing ones before starting.
// A missing index is reported, not treated as a job failure.
func reportMissingIndexes(instanceID string) {
	indexesPerCollection, err := responseDBService.GetCollectionIndexes(instanceID)
	if err != nil {
		slog.Warn("Failed to list collection indexes", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
		return
	}

	for collection, indexes := range indexesPerCollection {
		// every bootstrapped collection carries the default _id index plus
		// at least one secondary index
		if len(indexes) < 2 {
			slog.Warn("Collection is missing its secondary indexes", slog.String("instanceID", instanceID), slog.String("collection", collection), slog.Int("indexCount", len(indexes)))
		} else {
			slog.Debug("Collection indexes present", slog.String("instanceID", instanceID), slog.String("collection", collection), slog.Int("indexCount", len(indexes)))
		}
	}
}
