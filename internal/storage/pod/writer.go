package pod

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Upsert writes the batch keyed on (household_id, sequence_account_id):
// new pairs insert, existing pairs update their mutable fields. Reactivates
// previously inactive rows since every PodUpsert carries is_active = true.
// Returns the ids of the written rows.
func (w *Writer) Upsert(ctx context.Context, rows []PodUpsert) ([]uuid.UUID, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	mods := []bob.Mod[*dialect.InsertQuery]{
		im.Into("pods",
			"household_id",
			"sequence_account_id",
			"name",
			"is_active",
			"last_seen_at",
			"balance_amount_in_cents",
			"balance_error",
			"balance_updated_at",
		),
		im.OnConflict("household_id", "sequence_account_id").DoUpdate(
			im.SetExcluded("name"),
			im.SetExcluded("is_active"),
			im.SetExcluded("last_seen_at"),
			im.SetExcluded("balance_amount_in_cents"),
			im.SetExcluded("balance_error"),
			im.SetExcluded("balance_updated_at"),
		),
		im.Returning("id"),
	}
	for _, row := range rows {
		mods = append(mods, im.Values(psql.Arg(
			row.HouseholdID,
			row.SequenceAccountID,
			row.Name,
			row.IsActive,
			row.LastSeenAt,
			row.BalanceAmountInCents,
			row.BalanceError,
			row.BalanceUpdatedAt,
		)))
	}

	query := psql.Insert(mods...)
	ids, err := bob.All(ctx, w.tx, query, scan.SingleColumnMapper[uuid.UUID])
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeactivateStale flips is_active off for every row of the household that
// the current sync did not touch: still active, but last_seen_at strictly
// older than the sync's timestamp. Returns how many rows were deactivated.
func (w *Writer) DeactivateStale(ctx context.Context, householdID string, now time.Time) (int64, error) {
	query := psql.Update(
		um.Table("pods"),
		um.SetCol("is_active").ToArg(false),
		um.Where(psql.Quote("household_id").EQ(psql.Arg(householdID))),
		um.Where(psql.Quote("is_active").EQ(psql.Arg(true))),
		um.Where(psql.Quote("last_seen_at").LT(psql.Arg(now))),
	)

	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
