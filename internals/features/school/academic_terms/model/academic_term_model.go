// file: internals/features/school/academic_terms/model/academic_term_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademicTermModel struct {
	// PK
	AcademicTermID uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_term_id" json:"academic_term_id"`

	// Identitas
	// Example name: "1st" | "2nd" | "3rd"
	AcademicTermName string `gorm:"type:varchar(20);not null;column:academic_term_name" json:"academic_term_name"`
	// Example session: "2024/2025"
	AcademicTermSession string `gorm:"type:varchar(20);not null;column:academic_term_session" json:"academic_term_session"`

	AcademicTermStartDate time.Time `gorm:"not null;column:academic_term_start_date" json:"academic_term_start_date"`
	AcademicTermEndDate   time.Time `gorm:"not null;column:academic_term_end_date" json:"academic_term_end_date"`
	AcademicTermIsActive  bool      `gorm:"not null;default:false;column:academic_term_is_active" json:"academic_term_is_active"`

	// Timestamps + soft delete
	AcademicTermCreatedAt time.Time      `gorm:"not null;column:academic_term_created_at" json:"academic_term_created_at"`
	AcademicTermUpdatedAt time.Time      `gorm:"not null;column:academic_term_updated_at" json:"academic_term_updated_at"`
	AcademicTermDeletedAt gorm.DeletedAt `gorm:"column:academic_term_deleted_at;index" json:"academic_term_deleted_at,omitempty"`
}

func (AcademicTermModel) TableName() string { return "academic_terms" }

// Hooks: validation & light normalization
func (m *AcademicTermModel) BeforeSave(tx *gorm.DB) error {
	// Mirror CHECK: end >= start
	if !m.AcademicTermStartDate.IsZero() && m.AcademicTermEndDate.Before(m.AcademicTermStartDate) {
		return errors.New("academic_term_end_date must be >= academic_term_start_date")
	}
	m.AcademicTermName = strings.TrimSpace(m.AcademicTermName)
	m.AcademicTermSession = strings.TrimSpace(m.AcademicTermSession)
	return nil
}

func (m *AcademicTermModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicTermID == uuid.Nil {
		m.AcademicTermID = uuid.New()
	}
	now := time.Now()
	if m.AcademicTermCreatedAt.IsZero() {
		m.AcademicTermCreatedAt = now
	}
	m.AcademicTermUpdatedAt = now
	return nil
}

func (m *AcademicTermModel) BeforeUpdate(tx *gorm.DB) error {
	m.AcademicTermUpdatedAt = time.Now()
	return nil
}
