// file: internals/features/school/classrooms/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classroomController "schoolku_backend/internals/features/school/classrooms/controller"
)

func ClassroomAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := &classroomController.ClassroomController{DB: db}

	rooms := r.Group("/classrooms")
	rooms.Post("/", ctl.Create)       // POST   /api/a/classrooms
	rooms.Get("/", ctl.List)          // GET    /api/a/classrooms?active=true
	rooms.Get("/:id", ctl.GetByID)    // GET    /api/a/classrooms/:id
	rooms.Patch("/:id", ctl.Update)   // PATCH  /api/a/classrooms/:id
	rooms.Delete("/:id", ctl.Delete)  // DELETE /api/a/classrooms/:id (soft)
}
