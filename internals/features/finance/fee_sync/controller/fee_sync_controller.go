// file: internals/features/finance/fee_sync/controller/fee_sync_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditSvc "schoolku_backend/internals/features/finance/audit_logs/service"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	termModel "schoolku_backend/internals/features/school/academic_terms/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

type FeeSyncController struct {
	DB     *gorm.DB
	Engine *syncService.SyncEngine
}

func NewFeeSyncController(db *gorm.DB, engine *syncService.SyncEngine) *FeeSyncController {
	return &FeeSyncController{DB: db, Engine: engine}
}

/* ======================= SYNC ALL ======================= */
// POST /api/a/fees/sync-all — sync semua classroom yang punya structure aktif.
func (h *FeeSyncController) SyncAll(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	agg, err := h.Engine.SyncAll(c.UserContext(), actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_sync.sync_all",
		fmt.Sprintf("synced %d classrooms (created=%d updated=%d errors=%d)",
			agg.Classrooms, agg.Created, agg.Updated, agg.Errors))

	return helper.JsonOK(c, "sync-all selesai", fiber.Map{
		"stats": fiber.Map{
			"classrooms": agg.Classrooms,
			"created":    agg.Created,
			"updated":    agg.Updated,
			"skipped":    agg.Skipped,
			"errors":     agg.Errors,
		},
		"classroom_results": agg.Results,
	})
}

/* ======================= SYNC STUDENT ======================= */
// POST /api/a/fees/students/:id/sync — sync classroom milik satu siswa.
func (h *FeeSyncController) SyncStudent(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var student studentModel.StudentModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	res, err := h.Engine.SyncStudent(c.UserContext(), studentID, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_sync.student",
		fmt.Sprintf("synced classroom of student %s (created=%d updated=%d)",
			student.StudentAdmissionNo, res.Created, res.Updated),
		student.StudentID.String())

	return helper.JsonOK(c, "sync siswa selesai", fiber.Map{
		"student":     student,
		"sync_result": res,
	})
}

/* ======================= SYNC TERM ======================= */
// POST /api/a/fees/terms/:id/sync — sync semua classroom yang disentuh term.
func (h *FeeSyncController) SyncTerm(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	termID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var term termModel.AcademicTermModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&term, "academic_term_id = ?", termID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "academic term tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	agg, err := h.Engine.SyncTerm(c.UserContext(), termID, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_sync.term",
		fmt.Sprintf("synced term %s %s across %d classrooms (created=%d updated=%d)",
			term.AcademicTermName, term.AcademicTermSession, agg.Classrooms, agg.Created, agg.Updated),
		term.AcademicTermID.String())

	return helper.JsonOK(c, "sync term selesai", fiber.Map{
		"term": term,
		"stats": fiber.Map{
			"classrooms": agg.Classrooms,
			"created":    agg.Created,
			"updated":    agg.Updated,
			"skipped":    agg.Skipped,
			"errors":     agg.Errors,
		},
		"classroom_results": agg.Results,
	})
}

/* ======================= OPERATION LOOKUP ======================= */
// GET /api/a/fees/operations/:operation_id
func (h *FeeSyncController) GetOperation(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("operation_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid operation_id")
	}
	op, err := syncService.GetOperation(c.UserContext(), h.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "operation tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", op)
}
