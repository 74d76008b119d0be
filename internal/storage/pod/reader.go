package pod

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var podColumns = []string{
	"id",
	"household_id",
	"sequence_account_id",
	"name",
	"is_active",
	"last_seen_at",
	"balance_amount_in_cents",
	"balance_error",
	"balance_updated_at",
}

type Reader struct {
	exec bob.Executor
}

var _ IPodReader = (*Reader)(nil)

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// ListByHousehold returns every pod row for the household, active first.
func (r *Reader) ListByHousehold(ctx context.Context, householdID string) ([]*Pod, error) {
	columns := make([]any, len(podColumns))
	for i, col := range podColumns {
		columns[i] = psql.Quote(col)
	}

	query := psql.Select(
		sm.Columns(columns...),
		sm.From("pods"),
		sm.Where(psql.Quote("household_id").EQ(psql.Arg(householdID))),
		sm.OrderBy(psql.Quote("is_active")).Desc(),
		sm.OrderBy(psql.Quote("name")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, query, scan.StructMapper[*Pod]())
	if err != nil {
		return nil, err
	}
	return rows, nil
}
