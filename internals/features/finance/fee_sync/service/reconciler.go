// file: internals/features/finance/fee_sync/service/reconciler.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
)

// ReconcileResult = rekap satu full reconciliation.
type ReconcileResult struct {
	OperationID   uuid.UUID      `json:"operation_id"`
	Deduplication DedupResult    `json:"deduplication"`
	Backfill      BackfillResult `json:"backfill"`
	TotalErrors   int            `json:"total_errors"`
}

// Reconciler menjalankan dedup lalu backfill sebagai satu unit logis.
// Urutan fixed: cleanup dulu baru creation, supaya backfill tidak
// menciptakan ulang entry yang baru saja di-collapse dedup. Error parsial
// sub-phase tidak membatalkan unit — hanya exception tak terduga yang naik
// ke caller sebagai fatal.
type Reconciler struct {
	DB       *gorm.DB
	Dedup    *DedupPass
	Backfill *BackfillPass
}

func NewReconciler(db *gorm.DB, dedup *DedupPass, backfill *BackfillPass) *Reconciler {
	return &Reconciler{DB: db, Dedup: dedup, Backfill: backfill}
}

func (r *Reconciler) FullReconciliation(ctx context.Context, actorID uuid.UUID) (ReconcileResult, error) {
	res := ReconcileResult{}

	op, err := startOperation(ctx, r.DB, syncModel.FeeSyncTriggerReconciliation, nil, nil, actorID)
	if err != nil {
		return res, err
	}
	res.OperationID = op.FeeSyncOperationID

	dedup, err := r.Dedup.Run(ctx, actorID)
	if err != nil {
		finishOperation(ctx, r.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}
	res.Deduplication = dedup

	backfill, err := r.Backfill.Run(ctx, actorID)
	if err != nil {
		finishOperation(ctx, r.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}
	res.Backfill = backfill

	res.TotalErrors = len(dedup.Errors) + len(backfill.Errors)

	finishOperation(ctx, r.DB, op, syncModel.FeeSyncStatusCompleted, map[string]any{
		"duplicates_removed": dedup.DuplicatesRemoved,
		"fees_backfilled":    backfill.FeesBackfilled,
		"total_errors":       res.TotalErrors,
	}, nil)

	log.Printf("[RECONCILE] full run done: removed=%d backfilled=%d errors=%d",
		dedup.DuplicatesRemoved, backfill.FeesBackfilled, res.TotalErrors)
	return res, nil
}
