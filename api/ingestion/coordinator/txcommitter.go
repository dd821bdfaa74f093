package coordinator

import (
	"context"
	"fmt"

	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/api/ingestion/persist"
	"PlatformOrderSaas/internal/session"
)

// TxCommitter is the production Committer: PO rows and the upload
// fingerprint land in one transaction, so a crash mid-commit leaves neither.
type TxCommitter struct {
	store *persist.Store
	guard *dedup.Guard
}

func NewTxCommitter(store *persist.Store, guard *dedup.Guard) *TxCommitter {
	return &TxCommitter{store: store, guard: guard}
}

func (t *TxCommitter) CommitPO(ctx context.Context, s *session.PreviewSession) (int64, error) {
	tx, err := t.store.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("opening commit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	headerID, err := t.store.InsertPO(ctx, tx, s.PO, s.UploadedBy)
	if err != nil {
		return 0, err
	}
	if err := t.guard.Record(ctx, tx, s.FileHash, s.Scope, s.UploadType, s.FileSize); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return headerID, nil
}
