// file: internals/features/school/classrooms/model/classroom_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomModel struct {
	// PK
	ClassroomID uuid.UUID `gorm:"type:uuid;primaryKey;column:classroom_id" json:"classroom_id"`

	// Identitas
	ClassroomName  string  `gorm:"type:varchar(80);not null;column:classroom_name" json:"classroom_name"`
	ClassroomLevel *string `gorm:"type:varchar(40);column:classroom_level" json:"classroom_level,omitempty"`

	// Tanpa default di tag — nilai false ikut tertulis saat Create.
	ClassroomIsActive bool `gorm:"not null;column:classroom_is_active" json:"classroom_is_active"`

	// Timestamps + soft delete
	ClassroomCreatedAt time.Time      `gorm:"not null;column:classroom_created_at" json:"classroom_created_at"`
	ClassroomUpdatedAt time.Time      `gorm:"not null;column:classroom_updated_at" json:"classroom_updated_at"`
	ClassroomDeletedAt gorm.DeletedAt `gorm:"column:classroom_deleted_at;index" json:"classroom_deleted_at,omitempty"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomID == uuid.Nil {
		m.ClassroomID = uuid.New()
	}
	now := time.Now()
	if m.ClassroomCreatedAt.IsZero() {
		m.ClassroomCreatedAt = now
	}
	m.ClassroomUpdatedAt = now
	m.ClassroomName = strings.TrimSpace(m.ClassroomName)
	return nil
}

func (m *ClassroomModel) BeforeUpdate(tx *gorm.DB) error {
	m.ClassroomUpdatedAt = time.Now()
	return nil
}
