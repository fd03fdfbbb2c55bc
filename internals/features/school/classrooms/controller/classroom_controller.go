// file: internals/features/school/classrooms/controller/classroom_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/classrooms/dto"
	"schoolku_backend/internals/features/school/classrooms/model"
	helper "schoolku_backend/internals/helpers"
)

type ClassroomController struct {
	DB *gorm.DB
}

var validateClassroom = validator.New()

// POST /api/a/classrooms
func (h *ClassroomController) Create(c *fiber.Ctx) error {
	var req dto.ClassroomCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateClassroom.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	room := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&room).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "classroom dibuat", room)
}

// GET /api/a/classrooms
func (h *ClassroomController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.ClassroomModel{})
	if onlyActive := strings.TrimSpace(c.Query("active")); onlyActive == "true" {
		tx = tx.Where("classroom_is_active = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rooms []model.ClassroomModel
	if err := tx.Order("classroom_name asc").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "ok", rooms, helper.BuildPagination(total, p))
}

// GET /api/a/classrooms/:id
func (h *ClassroomController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var room model.ClassroomModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&room, "classroom_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "classroom tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", room)
}

// PATCH /api/a/classrooms/:id
func (h *ClassroomController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.ClassroomUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := validateClassroom.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var room model.ClassroomModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&room, "classroom_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "classroom tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	req.ApplyUpdates(&room)
	if err := h.DB.WithContext(c.UserContext()).Save(&room).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "classroom diperbarui", room)
}

// DELETE /api/a/classrooms/:id (soft delete)
func (h *ClassroomController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var room model.ClassroomModel
	if err := h.DB.WithContext(c.UserContext()).
		First(&room, "classroom_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "classroom tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := h.DB.WithContext(c.UserContext()).Delete(&room).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "classroom dihapus", fiber.Map{"classroom_id": id})
}
