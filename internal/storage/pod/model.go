package pod

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Pod is a persisted pod row. (household_id, sequence_account_id) is the
// natural key; rows are deactivated, never deleted.
type Pod struct {
	ID                   uuid.UUID  `db:"id"`
	HouseholdID          string     `db:"household_id"`
	SequenceAccountID    string     `db:"sequence_account_id"`
	Name                 string     `db:"name"`
	IsActive             bool       `db:"is_active"`
	LastSeenAt           time.Time  `db:"last_seen_at"`
	BalanceAmountInCents *int64     `db:"balance_amount_in_cents"`
	BalanceError         *string    `db:"balance_error"`
	BalanceUpdatedAt     *time.Time `db:"balance_updated_at"`
}

// PodUpsert is the canonical row a sync run writes. Every row produced by
// one run carries is_active = true and the run's shared timestamp.
type PodUpsert struct {
	HouseholdID          string
	SequenceAccountID    string
	Name                 string
	IsActive             bool
	LastSeenAt           time.Time
	BalanceAmountInCents *int64
	BalanceError         *string
	BalanceUpdatedAt     time.Time
}

// IPodReader defines the read operations the service layer uses.
// This abstraction allows swapping the implementation without changing callers.
type IPodReader interface {
	ListByHousehold(ctx context.Context, householdID string) ([]*Pod, error)
}
