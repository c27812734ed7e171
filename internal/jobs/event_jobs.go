package jobs

import (
	"context"

	"ngo-admin-backend/internal/logger"
)

// SyncEventStatuses writes the date-derived status back to every event that
// has not completed yet.
func (jr *JobRunner) SyncEventStatuses() {
	jr.runWithRecovery("SyncEventStatuses", func() {
		changed, err := jr.services.Events.SyncStatuses(context.Background())
		if err != nil {
			logger.Error("Failed to sync event statuses", "error", err)
			return
		}
		logger.Info("Event statuses synced", "changed", changed)
	})
}
