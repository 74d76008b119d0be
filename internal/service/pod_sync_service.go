package service

import (
	"context"
	"time"

	"github.com/carson-networks/podsync-server/internal/identity"
	"github.com/carson-networks/podsync-server/internal/operator/actions"
	"github.com/carson-networks/podsync-server/internal/sequence"
	"github.com/carson-networks/podsync-server/internal/syncerr"
)

// IActionProcessor runs a store action to completion. Satisfied by
// operator.OperatorDelegator.
type IActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// PodSyncService runs the reconciliation pipeline: authorization gate,
// aggregator fetch, classification/mapping, then upsert-plus-deactivate.
type PodSyncService struct {
	identity  identity.IClient
	sequence  sequence.IClient
	processor IActionProcessor
}

func NewPodSyncService(identityClient identity.IClient, sequenceClient sequence.IClient, processor IActionProcessor) *PodSyncService {
	return &PodSyncService{
		identity:  identityClient,
		sequence:  sequenceClient,
		processor: processor,
	}
}

// SyncPods reconciles the household's persisted pods against the
// aggregator's current account list. The identity gate runs before any
// aggregator call so unauthenticated callers cost nothing upstream.
func (s *PodSyncService) SyncPods(ctx context.Context, accessToken string) (*SyncResult, error) {
	household, err := s.identity.Resolve(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if household.Role != identity.RoleAdmin {
		return nil, syncerr.New(syncerr.Forbidden, "Only admins can sync pods")
	}

	fetch, err := s.sequence.FetchAccounts(ctx)
	if err != nil {
		return nil, err
	}

	// One timestamp for the whole run: the deactivate step keys off it.
	now := time.Now().UTC()

	rows, typesSeen := mapPodRows(fetch.Accounts, household.HouseholdID, now)

	upserted := 0
	if len(rows) > 0 {
		upsertAction := &actions.UpsertPods{Rows: rows}
		if err := s.processor.Process(ctx, upsertAction); err != nil {
			return nil, syncerr.Wrap(syncerr.UpsertFailed, "Upsert pods failed", err)
		}
		upserted = len(upsertAction.UpsertedIDs)
	}

	// Runs even when nothing was upserted: a zero-pod response deactivates
	// everything previously active. A failure here does not roll back the
	// committed upsert batch.
	deactivateAction := &actions.DeactivateStalePods{
		HouseholdID: household.HouseholdID,
		Now:         now,
	}
	if err := s.processor.Process(ctx, deactivateAction); err != nil {
		return nil, syncerr.Wrap(syncerr.DeactivateFailed, "Deactivate missing pods failed", err)
	}

	return &SyncResult{
		HouseholdID:   household.HouseholdID,
		SequenceURL:   fetch.URL,
		AccountsCount: len(fetch.Accounts),
		TypesSeen:     typesSeen,
		SeenPods:      len(rows),
		Upserted:      upserted,
		Deactivated:   int(deactivateAction.Deactivated),
	}, nil
}
