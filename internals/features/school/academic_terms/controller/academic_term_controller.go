// file: internals/features/school/academic_terms/controller/academic_term_controller.go
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
	structureModel "schoolku_backend/internals/features/finance/fee_structures/model"
	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	"schoolku_backend/internals/features/school/academic_terms/dto"
	"schoolku_backend/internals/features/school/academic_terms/model"
	helper "schoolku_backend/internals/helpers"
)

type AcademicTermController struct {
	DB      *gorm.DB
	Catalog *structureSvc.Catalog
	Engine  *syncService.SyncEngine
}

func NewAcademicTermController(db *gorm.DB, catalog *structureSvc.Catalog, engine *syncService.SyncEngine) *AcademicTermController {
	return &AcademicTermController{DB: db, Catalog: catalog, Engine: engine}
}

var validateTerm = validator.New()

func (h *AcademicTermController) findTerm(c *fiber.Ctx) (*model.AcademicTermModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var term model.AcademicTermModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&term, "academic_term_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "academic term tidak ditemukan")
		}
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return &term, nil
}

// POST /api/a/terms
func (h *AcademicTermController) Create(c *fiber.Ctx) error {
	var req dto.AcademicTermCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateTerm.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	term := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&term).Error; err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonCreated(c, "academic term dibuat", term)
}

// GET /api/a/terms
func (h *AcademicTermController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.AcademicTermModel{})
	if session := strings.TrimSpace(c.Query("session")); session != "" {
		tx = tx.Where("LOWER(academic_term_session) = LOWER(?)", session)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var terms []model.AcademicTermModel
	if err := tx.Order("academic_term_start_date desc").
		Limit(p.Limit).Offset(p.Offset).
		Find(&terms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "ok", terms, helper.BuildPagination(total, p))
}

// GET /api/a/terms/:id
func (h *AcademicTermController) GetByID(c *fiber.Ctx) error {
	term, err := h.findTerm(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", term)
}

// PATCH /api/a/terms/:id
func (h *AcademicTermController) Update(c *fiber.Ctx) error {
	term, err := h.findTerm(c)
	if err != nil {
		return err
	}

	var req dto.AcademicTermUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateTerm.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	req.ApplyUpdates(term)
	if err := h.DB.WithContext(c.UserContext()).Save(term).Error; err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	// Ganti nama/session tidak di-resync otomatis: entry ledger menyimpan
	// snapshot nama lama, drift-nya kelihatan di health-check.
	return helper.JsonUpdated(c, "academic term diperbarui", term)
}

/* ======================= ACTIVATE ======================= */
// PATCH /api/a/terms/:id/activate — aktifkan term lalu sync semua classroom
// yang punya structure aktif di term ini.
func (h *AcademicTermController) Activate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	term, err := h.findTerm(c)
	if err != nil {
		return err
	}

	if !term.AcademicTermIsActive {
		term.AcademicTermIsActive = true
		if err := h.DB.WithContext(c.UserContext()).Save(term).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	agg, err := h.Engine.SyncTerm(c.UserContext(), term.AcademicTermID, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "academic_term.activate",
		fmt.Sprintf("activated term %s %s, synced %d classrooms (created=%d)",
			term.AcademicTermName, term.AcademicTermSession, agg.Classrooms, agg.Created),
		term.AcademicTermID.String())

	return helper.JsonUpdated(c, "term diaktifkan", fiber.Map{
		"term": term,
		"sync_stats": fiber.Map{
			"classrooms": agg.Classrooms,
			"created":    agg.Created,
			"updated":    agg.Updated,
			"skipped":    agg.Skipped,
			"errors":     agg.Errors,
		},
	})
}

/* ======================= DEACTIVATE ======================= */
// PATCH /api/a/terms/:id/deactivate — matikan term beserta structure-nya.
// Entry ledger yang sudah ada TIDAK dihapus; mereka akan muncul sebagai
// extra fees di health-check (keputusan manusia mau diapakan).
func (h *AcademicTermController) Deactivate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	term, err := h.findTerm(c)
	if err != nil {
		return err
	}

	affected, err := h.Catalog.ClassroomIDsForTerm(c.UserContext(), term.AcademicTermID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		term.AcademicTermIsActive = false
		if err := tx.Save(term).Error; err != nil {
			return err
		}
		return tx.Model(&structureModel.FeeStructureModel{}).
			Where("fee_structure_term_id = ?", term.AcademicTermID).
			Where("fee_structure_is_active = ?", true).
			Updates(map[string]any{
				"fee_structure_is_active":  false,
				"fee_structure_updated_by": actorID,
				"fee_structure_updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	for _, classroomID := range affected {
		h.Catalog.Invalidate(classroomID)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "academic_term.deactivate",
		fmt.Sprintf("deactivated term %s %s and its structures (%d classrooms affected)",
			term.AcademicTermName, term.AcademicTermSession, len(affected)),
		term.AcademicTermID.String())

	return helper.JsonUpdated(c, "term dinonaktifkan", fiber.Map{
		"term":                term,
		"classrooms_affected": len(affected),
	})
}
