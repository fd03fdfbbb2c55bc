// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	structureRoute "schoolku_backend/internals/features/finance/fee_structures/route"
	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	feeSyncRoute "schoolku_backend/internals/features/finance/fee_sync/route"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	termRoute "schoolku_backend/internals/features/school/academic_terms/route"
	classroomRoute "schoolku_backend/internals/features/school/classrooms/route"
	studentRoute "schoolku_backend/internals/features/school/students/route"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	authMiddleware "schoolku_backend/internals/middlewares/auth"
)

var startTime time.Time

// catalogTTL: cache read-model structure per classroom. Invalidate eksplisit
// terjadi di setiap mutasi structure, TTL hanya jaring pengaman.
const catalogTTL = 5 * time.Minute

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// ===================== ENGINE WIRING =====================
	catalog := structureSvc.NewCatalog(db, catalogTTL, time.Now)
	engine := syncService.NewSyncEngine(db, catalog)
	dedup := syncService.NewDedupPass(db)
	backfill := syncService.NewBackfillPass(db, catalog)
	reconciler := syncService.NewReconciler(db, dedup, backfill)
	health := syncService.NewHealthChecker(db, catalog)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up base & auth routes...")
	BaseRoutes(app, db)

	api := app.Group("/api")
	authRoute.AuthRoutes(api, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (AuthJWT + IsAdmin)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		authMiddleware.IsAdmin(),
	)

	// ===================== MOUNT =====================
	log.Println("[INFO] Mounting fee engine routes...")
	structureRoute.FeeStructureAdminRoutes(admin, db, catalog, engine)
	feeSyncRoute.FeeSyncAdminRoutes(admin, db, engine, dedup, backfill, reconciler, health)

	log.Println("[INFO] Mounting school routes...")
	classroomRoute.ClassroomAdminRoutes(admin, db)
	termRoute.AcademicTermAdminRoutes(admin, db, catalog, engine)
	studentRoute.StudentAdminRoutes(admin, db, engine)
}

// BuildReconciler dipakai main untuk wiring scheduler (catalog terpisah dari
// yang dipakai HTTP; pass global memang tidak lewat cache).
func BuildReconciler(db *gorm.DB) *syncService.Reconciler {
	catalog := structureSvc.NewCatalog(db, catalogTTL, time.Now)
	dedup := syncService.NewDedupPass(db)
	backfill := syncService.NewBackfillPass(db, catalog)
	return syncService.NewReconciler(db, dedup, backfill)
}
