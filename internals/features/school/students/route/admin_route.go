// file: internals/features/school/students/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	studentController "schoolku_backend/internals/features/school/students/controller"
)

func StudentAdminRoutes(r fiber.Router, db *gorm.DB, engine *syncService.SyncEngine) {
	ctl := studentController.NewStudentController(db, engine)

	students := r.Group("/students")
	students.Post("/", ctl.Create)                        // POST  /api/a/students (sync kelas bila langsung ditempatkan)
	students.Get("/", ctl.List)                           // GET   /api/a/students?classroom_id=&q=
	students.Get("/:id", ctl.GetByID)                     // GET   /api/a/students/:id
	students.Patch("/:id", ctl.Update)                    // PATCH /api/a/students/:id
	students.Patch("/:id/classroom", ctl.MoveClassroom)   // PATCH /api/a/students/:id/classroom (sync kelas tujuan)
	students.Get("/:id/fees", ctl.ListFees)               // GET   /api/a/students/:id/fees
	students.Post("/:id/fees/:feeId/pay", ctl.PayFee)     // POST  /api/a/students/:id/fees/:feeId/pay
}
