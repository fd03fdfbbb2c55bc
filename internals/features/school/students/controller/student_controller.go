// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditSvc "schoolku_backend/internals/features/finance/audit_logs/service"
	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	classModel "schoolku_backend/internals/features/school/classrooms/model"
	"schoolku_backend/internals/features/school/students/dto"
	"schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

type StudentController struct {
	DB     *gorm.DB
	Engine *syncService.SyncEngine
}

func NewStudentController(db *gorm.DB, engine *syncService.SyncEngine) *StudentController {
	return &StudentController{DB: db, Engine: engine}
}

var validateStudent = validator.New()

func (h *StudentController) findStudent(c *fiber.Ctx) (*model.StudentModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var student model.StudentModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "siswa tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &student, nil
}

// POST /api/a/students — kalau langsung ditempatkan di kelas, classroom-nya
// ikut di-sync supaya siswa baru langsung punya entry term berjalan.
func (h *StudentController) Create(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.StudentCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateStudent.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if req.StudentClassroomID != nil {
		var room classModel.ClassroomModel
		if err := h.DB.WithContext(c.UserContext()).
			First(&room, "classroom_id = ?", *req.StudentClassroomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "classroom tidak ditemukan")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	student := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&student).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return helper.JsonError(c, fiber.StatusConflict, "admission_no sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := fiber.Map{"student": student}
	if student.StudentClassroomID != nil {
		res, err := h.Engine.Sync(c.UserContext(), *student.StudentClassroomID, actorID,
			syncModel.FeeSyncTriggerStudent)
		if err == nil {
			resp["sync_result"] = res
		}
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "student.create",
		fmt.Sprintf("created student %s (%s)", student.StudentFullName, student.StudentAdmissionNo),
		student.StudentID.String())

	return helper.JsonCreated(c, "siswa dibuat", resp)
}

// GET /api/a/students
func (h *StudentController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.StudentModel{})
	if classroomID := strings.TrimSpace(c.Query("classroom_id")); classroomID != "" {
		id, err := uuid.Parse(classroomID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid classroom_id")
		}
		tx = tx.Where("student_classroom_id = ?", id)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("LOWER(student_full_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var students []model.StudentModel
	if err := tx.Order("student_full_name asc").
		Limit(p.Limit).Offset(p.Offset).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "ok", students, helper.BuildPagination(total, p))
}

// GET /api/a/students/:id
func (h *StudentController) GetByID(c *fiber.Ctx) error {
	student, err := h.findStudent(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", student)
}

// PATCH /api/a/students/:id — pindah kelas TIDAK lewat sini (pakai /classroom)
func (h *StudentController) Update(c *fiber.Ctx) error {
	student, err := h.findStudent(c)
	if err != nil {
		return err
	}

	var req dto.StudentUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateStudent.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	req.ApplyUpdates(student)
	if err := h.DB.WithContext(c.UserContext()).Save(student).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
			return helper.JsonError(c, fiber.StatusConflict, "admission_no sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "siswa diperbarui", student)
}

/* ======================= MOVE CLASSROOM ======================= */
// PATCH /api/a/students/:id/classroom — pindah kelas lalu sync kelas tujuan.
// Entry dari kelas lama dibiarkan (history tagihan tetap utuh).
func (h *StudentController) MoveClassroom(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	student, err := h.findStudent(c)
	if err != nil {
		return err
	}

	var req dto.StudentMoveClassroomDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateStudent.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var room classModel.ClassroomModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&room, "classroom_id = ?", req.StudentClassroomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "classroom tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	student.StudentClassroomID = &room.ClassroomID
	if err := h.DB.WithContext(c.UserContext()).Save(student).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	res, err := h.Engine.Sync(c.UserContext(), room.ClassroomID, actorID, syncModel.FeeSyncTriggerStudent)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "student.move_classroom",
		fmt.Sprintf("moved student %s to classroom %s (created=%d)",
			student.StudentAdmissionNo, room.ClassroomName, res.Created),
		student.StudentID.String(), room.ClassroomID.String())

	return helper.JsonUpdated(c, "siswa dipindah kelas", fiber.Map{
		"student":     student,
		"classroom":   room,
		"sync_result": res,
	})
}

/* ======================= LEDGER READ ======================= */
// GET /api/a/students/:id/fees
func (h *StudentController) ListFees(c *fiber.Ctx) error {
	student, err := h.findStudent(c)
	if err != nil {
		return err
	}

	var fees []model.StudentFeeModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("student_fee_student_id = ?", student.StudentID).
		Order("student_fee_created_at asc").
		Find(&fees).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"student": student,
		"fees":    fees,
	})
}

/* ======================= PAY ======================= */
// POST /api/a/students/:id/fees/:feeId/pay — tandai lunas. Entry lunas tidak
// pernah di-reprice lagi oleh sync (amount terkunci saat pembayaran).
func (h *StudentController) PayFee(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	student, err := h.findStudent(c)
	if err != nil {
		return err
	}
	feeID, err := uuid.Parse(strings.TrimSpace(c.Params("feeId")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid feeId")
	}

	var fee model.StudentFeeModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("student_fee_id = ? AND student_fee_student_id = ?", feeID, student.StudentID).
		First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "fee entry tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if fee.StudentFeeIsPaid {
		return helper.JsonError(c, fiber.StatusConflict, "fee sudah dibayar")
	}

	now := time.Now()
	if err := h.DB.WithContext(c.UserContext()).
		Model(&fee).
		Updates(map[string]any{
			"student_fee_is_paid":      true,
			"student_fee_payment_date": now,
			"student_fee_is_viewable":  true,
			"student_fee_updated_by":   actorID,
			"student_fee_updated_at":   now,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "student_fee.pay",
		fmt.Sprintf("marked fee %s %s of student %s as paid (Rp%d)",
			fee.StudentFeeTermName, fee.StudentFeeSessionName,
			student.StudentAdmissionNo, fee.StudentFeeAmountIDR),
		student.StudentID.String(), fee.StudentFeeID.String())

	return helper.JsonUpdated(c, "pembayaran dicatat", fee)
}
