package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/podsync-server/internal/storage"
	"github.com/carson-networks/podsync-server/internal/storage/pod"
)

// UpsertPods writes one sync run's observed pods in a single transaction:
// the batch applies wholly or not at all.
type UpsertPods struct {
	Rows []pod.PodUpsert

	// UpsertedIDs is populated by Perform.
	UpsertedIDs []uuid.UUID

	IAction
}

func (a *UpsertPods) Perform(ctx context.Context, writer *storage.Writer) error {
	if len(a.Rows) == 0 {
		return nil
	}

	ids, err := writer.Pods.Upsert(ctx, a.Rows)
	if err != nil {
		return err
	}

	a.UpsertedIDs = ids
	return nil
}
