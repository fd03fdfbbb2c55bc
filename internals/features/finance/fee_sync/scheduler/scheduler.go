// file: internals/features/finance/fee_sync/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
)

// systemActor dipakai sebagai actor_id untuk run terjadwal (bukan manusia).
var systemActor = uuid.Nil

// StartReconciliationScheduler menjalankan full reconciliation periodik.
// Interval diambil dari FEE_RECON_INTERVAL_HOURS; kosong/0 = disabled
// (default, karena model eksekusi utamanya synchronous per request).
func StartReconciliationScheduler(db *gorm.DB, reconciler *syncService.Reconciler) {
	hours := 0
	if val := os.Getenv("FEE_RECON_INTERVAL_HOURS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			hours = parsed
		}
	}
	if hours <= 0 {
		log.Println("[RECONCILE] scheduler disabled (FEE_RECON_INTERVAL_HOURS tidak diset)")
		return
	}

	go func() {
		interval := time.Duration(hours) * time.Hour
		for {
			time.Sleep(interval)

			log.Println("[RECONCILE] scheduler: menjalankan full reconciliation...")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			res, err := reconciler.FullReconciliation(ctx, systemActor)
			cancel()
			if err != nil {
				log.Printf("[RECONCILE ERROR] scheduled run gagal: %v", err)
				continue
			}
			log.Printf("[RECONCILE] scheduled run selesai: removed=%d backfilled=%d errors=%d",
				res.Deduplication.DuplicatesRemoved, res.Backfill.FeesBackfilled, res.TotalErrors)
		}
	}()
}
