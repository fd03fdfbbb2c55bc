// file: internals/features/school/classrooms/dto/classroom_dto.go
package dto

import (
	model "schoolku_backend/internals/features/school/classrooms/model"
)

type ClassroomCreateDTO struct {
	ClassroomName  string  `json:"classroom_name" validate:"required,max=80"`
	ClassroomLevel *string `json:"classroom_level" validate:"omitempty,max=40"`
}

type ClassroomUpdateDTO struct {
	ClassroomName     *string `json:"classroom_name" validate:"omitempty,max=80"`
	ClassroomLevel    *string `json:"classroom_level" validate:"omitempty,max=40"`
	ClassroomIsActive *bool   `json:"classroom_is_active"`
}

func (in ClassroomCreateDTO) ToModel() model.ClassroomModel {
	return model.ClassroomModel{
		ClassroomName:     in.ClassroomName,
		ClassroomLevel:    in.ClassroomLevel,
		ClassroomIsActive: true,
	}
}

// ApplyUpdates: hanya field non-nil yang dipakai (partial update)
func (in ClassroomUpdateDTO) ApplyUpdates(m *model.ClassroomModel) {
	if in.ClassroomName != nil {
		m.ClassroomName = *in.ClassroomName
	}
	if in.ClassroomLevel != nil {
		m.ClassroomLevel = in.ClassroomLevel
	}
	if in.ClassroomIsActive != nil {
		m.ClassroomIsActive = *in.ClassroomIsActive
	}
}
