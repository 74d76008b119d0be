package actions

import (
	"context"
	"time"

	"github.com/carson-networks/podsync-server/internal/storage"
)

// DeactivateStalePods runs after the upsert batch has committed. It relies
// on last_seen_at having already been advanced for every pod the current
// sync observed, so anything older than Now was not seen.
type DeactivateStalePods struct {
	HouseholdID string
	Now         time.Time

	// Deactivated is populated by Perform.
	Deactivated int64

	IAction
}

func (a *DeactivateStalePods) Perform(ctx context.Context, writer *storage.Writer) error {
	count, err := writer.Pods.DeactivateStale(ctx, a.HouseholdID, a.Now)
	if err != nil {
		return err
	}

	a.Deactivated = count
	return nil
}
