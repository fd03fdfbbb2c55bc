// file: internals/features/finance/fee_structures/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeStructureController "schoolku_backend/internals/features/finance/fee_structures/controller"
	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
)

/*
Admin routes: full CRUD + confirm-delete (impact report + CSV).
Mount contoh: FeeStructureAdminRoutes(app.Group("/api/a"), db, catalog, engine)
*/
func FeeStructureAdminRoutes(r fiber.Router, db *gorm.DB, catalog *structureSvc.Catalog, engine *syncService.SyncEngine) {
	ctl := feeStructureController.NewFeeStructureController(db, catalog, engine)

	structures := r.Group("/fees/structures")
	structures.Post("/", ctl.Create)                          // POST /api/a/fees/structures (cascade sync jika term aktif)
	structures.Get("/", ctl.List)                             // GET  /api/a/fees/structures?classroom_id=&term_id=
	structures.Get("/:id", ctl.GetByID)                       // GET  /api/a/fees/structures/:id
	structures.Put("/:id", ctl.Update)                        // PUT  /api/a/fees/structures/:id (ganti nominal + cascade sync)
	structures.Post("/:id/confirm-delete", ctl.ConfirmDelete) // POST /api/a/fees/structures/:id/confirm-delete (two-step delete + CSV)
}
