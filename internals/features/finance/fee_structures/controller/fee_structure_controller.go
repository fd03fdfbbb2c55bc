// file: internals/features/finance/fee_structures/controller/fee_structure_controller.go
package controller

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditSvc "schoolku_backend/internals/features/finance/audit_logs/service"
	"schoolku_backend/internals/features/finance/fee_structures/dto"
	model "schoolku_backend/internals/features/finance/fee_structures/model"
	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	termModel "schoolku_backend/internals/features/school/academic_terms/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

type FeeStructureController struct {
	DB      *gorm.DB
	Catalog *structureSvc.Catalog
	Engine  *syncService.SyncEngine
}

func NewFeeStructureController(db *gorm.DB, catalog *structureSvc.Catalog, engine *syncService.SyncEngine) *FeeStructureController {
	return &FeeStructureController{DB: db, Catalog: catalog, Engine: engine}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}

/* ======================= CREATE ======================= */
// POST /api/a/fees/structures
// Kalau term-nya aktif, langsung cascade sync classroom terkait.
func (h *FeeStructureController) Create(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var in dto.FeeStructureCreateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validator.New().Struct(in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// Term harus ada (structural); sekalian ambil activation state.
	var term termModel.AcademicTermModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&term, "academic_term_id = ?", in.FeeStructureTermID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "academic term tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	m := in.ToModel(actorID)
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "fee structure untuk (classroom, term) ini sudah ada")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.Catalog.Invalidate(m.FeeStructureClassroomID)

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_structure.create",
		fmt.Sprintf("created fee structure %s (classroom=%s term=%s amount=%d)",
			m.FeeStructureID, m.FeeStructureClassroomID, m.FeeStructureTermID, m.FeeStructureAmountIDR),
		m.FeeStructureClassroomID.String())

	data := fiber.Map{"fee_structure": dto.ToFeeStructureResponse(m)}

	// Cascade sync hanya saat term aktif.
	if term.AcademicTermIsActive {
		syncRes, err := h.Engine.Sync(c.UserContext(), m.FeeStructureClassroomID, actorID, syncModel.FeeSyncTriggerStructureCreate)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		data["sync_result"] = syncRes
	}
	return helper.JsonCreated(c, "fee structure created", data)
}

/* ======================= UPDATE ======================= */
// PUT /api/a/fees/structures/:id — amount change + cascade sync.
func (h *FeeStructureController) Update(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var in dto.FeeStructureUpdateDTO
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := validator.New().Struct(in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var m model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "fee_structure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee structure tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	m.FeeStructureAmountIDR = in.FeeStructureAmountIDR
	m.FeeStructureUpdatedBy = &actorID
	if err := h.DB.WithContext(c.UserContext()).Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.Catalog.Invalidate(m.FeeStructureClassroomID)

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_structure.update",
		fmt.Sprintf("updated fee structure %s amount to %d", m.FeeStructureID, m.FeeStructureAmountIDR),
		m.FeeStructureClassroomID.String())

	syncRes, err := h.Engine.Sync(c.UserContext(), m.FeeStructureClassroomID, actorID, syncModel.FeeSyncTriggerStructureUpdate)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "fee structure updated", fiber.Map{
		"fee_structure": dto.ToFeeStructureResponse(m),
		"sync_result":   syncRes,
	})
}

/* =================== CONFIRM DELETE =================== */
// POST /api/a/fees/structures/:id/confirm-delete
// Soft-delete structure + cascade soft-delete entry ledger unpaid yang
// match, plus export CSV baris yang terdampak (untuk arsip operator).
func (h *FeeStructureController) ConfirmDelete(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "fee_structure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee structure tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var term termModel.AcademicTermModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&term, "academic_term_id = ?", m.FeeStructureTermID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Kumpulkan entry terdampak dulu (untuk CSV), baru hapus.
	type affectedRow struct {
		FeeID       uuid.UUID `gorm:"column:student_fee_id"`
		StudentID   uuid.UUID `gorm:"column:student_id"`
		FullName    string    `gorm:"column:student_full_name"`
		AdmissionNo string    `gorm:"column:student_admission_no"`
		TermName    string    `gorm:"column:student_fee_term_name"`
		SessionName string    `gorm:"column:student_fee_session_name"`
		AmountIDR   int       `gorm:"column:student_fee_amount_idr"`
		IsPaid      bool      `gorm:"column:student_fee_is_paid"`
	}
	var affected []affectedRow
	if err := h.DB.WithContext(c.UserContext()).
		Table("student_fees").
		Select(`student_fees.student_fee_id, students.student_id, students.student_full_name,
students.student_admission_no, student_fees.student_fee_term_name,
student_fees.student_fee_session_name, student_fees.student_fee_amount_idr,
student_fees.student_fee_is_paid`).
		Joins("JOIN students ON students.student_id = student_fees.student_fee_student_id").
		Where("students.student_classroom_id = ?", m.FeeStructureClassroomID).
		Where("students.student_deleted_at IS NULL").
		Where("student_fees.student_fee_deleted_at IS NULL").
		Where("LOWER(student_fees.student_fee_term_name) = LOWER(?)", term.AcademicTermName).
		Where("LOWER(student_fees.student_fee_session_name) = LOWER(?)", term.AcademicTermSession).
		Scan(&affected).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// Entry yang sudah paid tidak ikut dihapus — history pembayaran dibekukan.
	var removable []uuid.UUID
	for _, row := range affected {
		if !row.IsPaid {
			removable = append(removable, row.FeeID)
		}
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.FeeStructureModel{}).
			Where("fee_structure_id = ?", m.FeeStructureID).
			Update("fee_structure_is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.FeeStructureModel{}, "fee_structure_id = ?", m.FeeStructureID).Error; err != nil {
			return err
		}
		if len(removable) > 0 {
			if err := tx.Where("student_fee_id IN ?", removable).
				Delete(&studentModel.StudentFeeModel{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.Catalog.Invalidate(m.FeeStructureClassroomID)

	// CSV export baris terdampak
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"admission_no", "student_name", "term", "session", "amount_idr", "paid", "removed"})
	students := make(map[uuid.UUID]struct{})
	for _, row := range affected {
		students[row.StudentID] = struct{}{}
		_ = w.Write([]string{
			row.AdmissionNo,
			row.FullName,
			row.TermName,
			row.SessionName,
			strconv.Itoa(row.AmountIDR),
			strconv.FormatBool(row.IsPaid),
			strconv.FormatBool(!row.IsPaid),
		})
	}
	w.Flush()

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_structure.confirm_delete",
		fmt.Sprintf("soft-deleted fee structure %s, removed %d unpaid ledger entries (%d students affected)",
			m.FeeStructureID, len(removable), len(students)),
		m.FeeStructureClassroomID.String())

	return helper.JsonDeleted(c, "fee structure deleted", fiber.Map{
		"stats": fiber.Map{
			"students_affected": len(students),
			"fees_removed":      len(removable),
			"csv_data":          buf.String(),
		},
	})
}

/* ======================= LIST / DETAIL ======================= */
// GET /api/a/fees/structures
func (h *FeeStructureController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.UserContext()).Model(&model.FeeStructureModel{})
	if cid := c.Query("classroom_id"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			q = q.Where("fee_structure_classroom_id = ?", id)
		}
	}
	if tid := c.Query("term_id"); tid != "" {
		if id, err := uuid.Parse(tid); err == nil {
			q = q.Where("fee_structure_term_id = ?", id)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.FeeStructureModel
	if err := q.Order("fee_structure_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.FeeStructureResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToFeeStructureResponse(r))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// GET /api/a/fees/structures/:id
func (h *FeeStructureController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var m model.FeeStructureModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "fee_structure_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee structure tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.ToFeeStructureResponse(m))
}
