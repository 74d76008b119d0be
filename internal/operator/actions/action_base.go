package actions

import (
	"context"

	"github.com/carson-networks/podsync-server/internal/storage"
)

// IAction is one unit of store work. The operator runs Perform inside a
// transaction; actions may record results on themselves, which are safe to
// read once Process has returned.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
