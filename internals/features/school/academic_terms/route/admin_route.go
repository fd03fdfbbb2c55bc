// file: internals/features/school/academic_terms/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	termController "schoolku_backend/internals/features/school/academic_terms/controller"
)

func AcademicTermAdminRoutes(r fiber.Router, db *gorm.DB, catalog *structureSvc.Catalog, engine *syncService.SyncEngine) {
	ctl := termController.NewAcademicTermController(db, catalog, engine)

	terms := r.Group("/terms")
	terms.Post("/", ctl.Create)                    // POST  /api/a/terms
	terms.Get("/", ctl.List)                       // GET   /api/a/terms?session=2024/2025
	terms.Get("/:id", ctl.GetByID)                 // GET   /api/a/terms/:id
	terms.Patch("/:id", ctl.Update)                // PATCH /api/a/terms/:id
	terms.Patch("/:id/activate", ctl.Activate)     // PATCH /api/a/terms/:id/activate (cascade sync)
	terms.Patch("/:id/deactivate", ctl.Deactivate) // PATCH /api/a/terms/:id/deactivate (matikan structures)
}
