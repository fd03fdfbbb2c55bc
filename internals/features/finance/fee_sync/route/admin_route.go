// file: internals/features/finance/fee_sync/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeSyncController "schoolku_backend/internals/features/finance/fee_sync/controller"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	"schoolku_backend/internals/middlewares"
)

/*
Admin routes: sync triggers, reconciliation passes, health check, operation log.
Operasi sync/reconcile dibatasi SyncRateLimiter karena menyentuh seluruh ledger.
*/
func FeeSyncAdminRoutes(
	r fiber.Router,
	db *gorm.DB,
	engine *syncService.SyncEngine,
	dedup *syncService.DedupPass,
	backfill *syncService.BackfillPass,
	reconciler *syncService.Reconciler,
	health *syncService.HealthChecker,
) {
	syncCtl := feeSyncController.NewFeeSyncController(db, engine)
	reconCtl := feeSyncController.NewReconcileController(db, dedup, backfill, reconciler, health)

	fees := r.Group("/fees")
	heavy := fees.Group("", middlewares.SyncRateLimiter())

	// SYNC TRIGGERS
	heavy.Post("/sync-all", syncCtl.SyncAll)              // POST /api/a/fees/sync-all
	heavy.Post("/students/:id/sync", syncCtl.SyncStudent) // POST /api/a/fees/students/:id/sync
	heavy.Post("/terms/:id/sync", syncCtl.SyncTerm)       // POST /api/a/fees/terms/:id/sync

	// RECONCILIATION
	heavy.Post("/reconcile/deduplicate", reconCtl.Deduplicate)    // POST /api/a/fees/reconcile/deduplicate
	heavy.Post("/reconcile/backfill", reconCtl.BackfillMissing)   // POST /api/a/fees/reconcile/backfill
	heavy.Post("/reconcile/full", reconCtl.FullReconciliation)    // POST /api/a/fees/reconcile/full

	// READ ONLY
	fees.Get("/health-check", reconCtl.HealthCheck)             // GET /api/a/fees/health-check
	fees.Get("/operations/:operation_id", syncCtl.GetOperation) // GET /api/a/fees/operations/:operation_id
}
