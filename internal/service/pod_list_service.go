package service

import (
	"context"

	"github.com/carson-networks/podsync-server/internal/identity"
	"github.com/carson-networks/podsync-server/internal/storage"
)

// PodListService serves household-scoped pod reads. Any household member may
// read; only syncs are admin-gated.
type PodListService struct {
	identity identity.IClient
	storage  *storage.Storage
}

func NewPodListService(identityClient identity.IClient, store *storage.Storage) *PodListService {
	return &PodListService{
		identity: identityClient,
		storage:  store,
	}
}

// ListPods resolves the caller's household and returns its pods.
func (s *PodListService) ListPods(ctx context.Context, accessToken string) ([]Pod, error) {
	household, err := s.identity.Resolve(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	rows, err := s.storage.Pods.ListByHousehold(ctx, household.HouseholdID)
	if err != nil {
		return nil, err
	}

	pods := make([]Pod, len(rows))
	for i, row := range rows {
		pods[i] = Pod{
			ID:                   row.ID,
			SequenceAccountID:    row.SequenceAccountID,
			Name:                 row.Name,
			IsActive:             row.IsActive,
			LastSeenAt:           row.LastSeenAt,
			BalanceAmountInCents: row.BalanceAmountInCents,
			BalanceError:         row.BalanceError,
			BalanceUpdatedAt:     row.BalanceUpdatedAt,
		}
	}

	return pods, nil
}
