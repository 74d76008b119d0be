package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/podsync-server/internal/storage/pod"
)

type Writer struct {
	tx   bob.Tx
	Pods *pod.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:   tx,
		Pods: pod.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
