package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// SyncResult summarizes one reconciliation run for the caller.
type SyncResult struct {
	HouseholdID   string
	SequenceURL   string
	AccountsCount int
	TypesSeen     []string
	SeenPods      int
	Upserted      int
	Deactivated   int
}

// Pod represents a pod in the service layer.
type Pod struct {
	ID                   uuid.UUID
	SequenceAccountID    string
	Name                 string
	IsActive             bool
	LastSeenAt           time.Time
	BalanceAmountInCents *int64
	BalanceError         *string
	BalanceUpdatedAt     *time.Time
}
