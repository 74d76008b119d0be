package service

import (
	"github.com/carson-networks/podsync-server/internal/identity"
	"github.com/carson-networks/podsync-server/internal/sequence"
	"github.com/carson-networks/podsync-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	PodSync *PodSyncService
	PodList *PodListService
}

// NewService creates a new Service with the given collaborators.
func NewService(identityClient identity.IClient, sequenceClient sequence.IClient, processor IActionProcessor, store *storage.Storage) *Service {
	return &Service{
		PodSync: NewPodSyncService(identityClient, sequenceClient, processor),
		PodList: NewPodListService(identityClient, store),
	}
}
