// file: internals/features/school/students/model/student_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	// PK
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`

	// Identitas
	StudentFullName    string `gorm:"type:varchar(120);not null;column:student_full_name" json:"student_full_name"`
	StudentAdmissionNo string `gorm:"type:varchar(40);not null;uniqueIndex:uq_students_admission_no;column:student_admission_no" json:"student_admission_no"`

	// Penempatan kelas (nullable: siswa baru bisa belum punya kelas)
	StudentClassroomID *uuid.UUID `gorm:"type:uuid;index:ix_students_classroom;column:student_classroom_id" json:"student_classroom_id,omitempty"`

	// Eligibility window untuk billing: admission_date <= term.end_date
	StudentAdmissionDate time.Time `gorm:"not null;column:student_admission_date" json:"student_admission_date"`

	// Tanpa default di tag — nilai false ikut tertulis saat Create.
	StudentIsActive bool `gorm:"not null;column:student_is_active" json:"student_is_active"`

	// Timestamps + soft delete
	StudentCreatedAt time.Time      `gorm:"not null;column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"not null;column:student_updated_at" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	m.StudentFullName = strings.TrimSpace(m.StudentFullName)
	m.StudentAdmissionNo = strings.TrimSpace(m.StudentAdmissionNo)
	return nil
}

func (m *StudentModel) BeforeUpdate(tx *gorm.DB) error {
	m.StudentUpdatedAt = time.Now()
	return nil
}
