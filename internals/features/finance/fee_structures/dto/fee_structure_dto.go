// file: internals/features/finance/fee_structures/dto/fee_structure_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "schoolku_backend/internals/features/finance/fee_structures/model"
)

// Create
type FeeStructureCreateDTO struct {
	FeeStructureClassroomID uuid.UUID `json:"fee_structure_classroom_id" validate:"required"`
	FeeStructureTermID      uuid.UUID `json:"fee_structure_term_id" validate:"required"`
	FeeStructureAmountIDR   int       `json:"fee_structure_amount_idr" validate:"required,min=0"`
}

// Update (PUT: hanya nominal yang boleh berubah; identitas classroom+term tetap)
type FeeStructureUpdateDTO struct {
	FeeStructureAmountIDR int `json:"fee_structure_amount_idr" validate:"required,min=0"`
}

// Response
type FeeStructureResponse struct {
	FeeStructureID          uuid.UUID  `json:"fee_structure_id"`
	FeeStructureClassroomID uuid.UUID  `json:"fee_structure_classroom_id"`
	FeeStructureTermID      uuid.UUID  `json:"fee_structure_term_id"`
	FeeStructureAmountIDR   int        `json:"fee_structure_amount_idr"`
	FeeStructureIsActive    bool       `json:"fee_structure_is_active"`
	FeeStructureCreatedBy   uuid.UUID  `json:"fee_structure_created_by"`
	FeeStructureUpdatedBy   *uuid.UUID `json:"fee_structure_updated_by,omitempty"`
	FeeStructureCreatedAt   time.Time  `json:"fee_structure_created_at"`
	FeeStructureUpdatedAt   time.Time  `json:"fee_structure_updated_at"`
}

func (in FeeStructureCreateDTO) ToModel(actorID uuid.UUID) model.FeeStructureModel {
	return model.FeeStructureModel{
		FeeStructureClassroomID: in.FeeStructureClassroomID,
		FeeStructureTermID:      in.FeeStructureTermID,
		FeeStructureAmountIDR:   in.FeeStructureAmountIDR,
		FeeStructureIsActive:    true,
		FeeStructureCreatedBy:   actorID,
	}
}

func ToFeeStructureResponse(m model.FeeStructureModel) FeeStructureResponse {
	return FeeStructureResponse{
		FeeStructureID:          m.FeeStructureID,
		FeeStructureClassroomID: m.FeeStructureClassroomID,
		FeeStructureTermID:      m.FeeStructureTermID,
		FeeStructureAmountIDR:   m.FeeStructureAmountIDR,
		FeeStructureIsActive:    m.FeeStructureIsActive,
		FeeStructureCreatedBy:   m.FeeStructureCreatedBy,
		FeeStructureUpdatedBy:   m.FeeStructureUpdatedBy,
		FeeStructureCreatedAt:   m.FeeStructureCreatedAt,
		FeeStructureUpdatedAt:   m.FeeStructureUpdatedAt,
	}
}
