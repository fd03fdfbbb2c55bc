// file: internals/features/school/academic_terms/dto/academic_term_dto.go
package dto

import (
	"time"

	model "schoolku_backend/internals/features/school/academic_terms/model"
)

type AcademicTermCreateDTO struct {
	AcademicTermName      string    `json:"academic_term_name" validate:"required,max=20"`
	AcademicTermSession   string    `json:"academic_term_session" validate:"required,max=20"`
	AcademicTermStartDate time.Time `json:"academic_term_start_date" validate:"required"`
	AcademicTermEndDate   time.Time `json:"academic_term_end_date" validate:"required"`
}

type AcademicTermUpdateDTO struct {
	AcademicTermName      *string    `json:"academic_term_name" validate:"omitempty,max=20"`
	AcademicTermSession   *string    `json:"academic_term_session" validate:"omitempty,max=20"`
	AcademicTermStartDate *time.Time `json:"academic_term_start_date"`
	AcademicTermEndDate   *time.Time `json:"academic_term_end_date"`
}

func (in AcademicTermCreateDTO) ToModel() model.AcademicTermModel {
	return model.AcademicTermModel{
		AcademicTermName:      in.AcademicTermName,
		AcademicTermSession:   in.AcademicTermSession,
		AcademicTermStartDate: in.AcademicTermStartDate,
		AcademicTermEndDate:   in.AcademicTermEndDate,
		// activation eksplisit lewat endpoint activate, bukan saat create
		AcademicTermIsActive: false,
	}
}

func (in AcademicTermUpdateDTO) ApplyUpdates(m *model.AcademicTermModel) {
	if in.AcademicTermName != nil {
		m.AcademicTermName = *in.AcademicTermName
	}
	if in.AcademicTermSession != nil {
		m.AcademicTermSession = *in.AcademicTermSession
	}
	if in.AcademicTermStartDate != nil {
		m.AcademicTermStartDate = *in.AcademicTermStartDate
	}
	if in.AcademicTermEndDate != nil {
		m.AcademicTermEndDate = *in.AcademicTermEndDate
	}
}
