// file: internals/features/school/students/dto/student_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "schoolku_backend/internals/features/school/students/model"
)

type StudentCreateDTO struct {
	StudentFullName      string     `json:"student_full_name" validate:"required,max=120"`
	StudentAdmissionNo   string     `json:"student_admission_no" validate:"required,max=40"`
	StudentClassroomID   *uuid.UUID `json:"student_classroom_id"`
	StudentAdmissionDate time.Time  `json:"student_admission_date" validate:"required"`
}

type StudentUpdateDTO struct {
	StudentFullName      *string    `json:"student_full_name" validate:"omitempty,max=120"`
	StudentAdmissionNo   *string    `json:"student_admission_no" validate:"omitempty,max=40"`
	StudentAdmissionDate *time.Time `json:"student_admission_date"`
	StudentIsActive      *bool      `json:"student_is_active"`
}

// Pindah kelas lewat endpoint khusus (memicu sync classroom tujuan),
// bukan lewat update biasa.
type StudentMoveClassroomDTO struct {
	StudentClassroomID uuid.UUID `json:"student_classroom_id" validate:"required"`
}

func (in StudentCreateDTO) ToModel() model.StudentModel {
	return model.StudentModel{
		StudentFullName:      in.StudentFullName,
		StudentAdmissionNo:   in.StudentAdmissionNo,
		StudentClassroomID:   in.StudentClassroomID,
		StudentAdmissionDate: in.StudentAdmissionDate,
		StudentIsActive:      true,
	}
}

func (in StudentUpdateDTO) ApplyUpdates(m *model.StudentModel) {
	if in.StudentFullName != nil {
		m.StudentFullName = *in.StudentFullName
	}
	if in.StudentAdmissionNo != nil {
		m.StudentAdmissionNo = *in.StudentAdmissionNo
	}
	if in.StudentAdmissionDate != nil {
		m.StudentAdmissionDate = *in.StudentAdmissionDate
	}
	if in.StudentIsActive != nil {
		m.StudentIsActive = *in.StudentIsActive
	}
}
