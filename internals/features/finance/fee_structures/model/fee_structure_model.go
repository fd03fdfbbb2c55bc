// file: internals/features/finance/fee_structures/model/fee_structure_model.go
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeStructureModel = definisi biaya per (classroom, term). Soft delete saja
// (is_active=false + deleted_at) supaya history & audit tetap utuh.
//
// Catatan migrasi (Postgres): partial unique index
//
//	CREATE UNIQUE INDEX uq_fee_structures_classroom_term
//	  ON fee_structures (fee_structure_classroom_id, fee_structure_term_id)
//	  WHERE fee_structure_deleted_at IS NULL;
type FeeStructureModel struct {
	// PK
	FeeStructureID uuid.UUID `gorm:"type:uuid;primaryKey;column:fee_structure_id" json:"fee_structure_id"`

	// Identity = (classroom, term)
	FeeStructureClassroomID uuid.UUID `gorm:"type:uuid;not null;index:ix_fee_structures_classroom;column:fee_structure_classroom_id" json:"fee_structure_classroom_id"`
	FeeStructureTermID      uuid.UUID `gorm:"type:uuid;not null;index:ix_fee_structures_term;column:fee_structure_term_id" json:"fee_structure_term_id"`

	FeeStructureAmountIDR int `gorm:"not null;check:fee_structure_amount_idr>=0;column:fee_structure_amount_idr" json:"fee_structure_amount_idr"`
	// Tanpa default:true di tag: kolom bool ber-default membuat GORM
	// men-skip nilai false saat Create (zero value), jadi structure inactive
	// tidak bisa direpresentasikan. Nilai diisi eksplisit oleh semua caller.
	FeeStructureIsActive bool `gorm:"not null;column:fee_structure_is_active" json:"fee_structure_is_active"`

	// Audit
	FeeStructureCreatedBy uuid.UUID  `gorm:"type:uuid;not null;column:fee_structure_created_by" json:"fee_structure_created_by"`
	FeeStructureUpdatedBy *uuid.UUID `gorm:"type:uuid;column:fee_structure_updated_by" json:"fee_structure_updated_by,omitempty"`

	FeeStructureCreatedAt time.Time      `gorm:"not null;column:fee_structure_created_at" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt time.Time      `gorm:"not null;column:fee_structure_updated_at" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt gorm.DeletedAt `gorm:"column:fee_structure_deleted_at;index" json:"fee_structure_deleted_at,omitempty"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

func (m *FeeStructureModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStructureID == uuid.Nil {
		m.FeeStructureID = uuid.New()
	}
	if m.FeeStructureClassroomID == uuid.Nil || m.FeeStructureTermID == uuid.Nil {
		return errors.New("fee_structure_classroom_id dan fee_structure_term_id wajib diisi")
	}
	now := time.Now()
	if m.FeeStructureCreatedAt.IsZero() {
		m.FeeStructureCreatedAt = now
	}
	m.FeeStructureUpdatedAt = now
	return nil
}

func (m *FeeStructureModel) BeforeUpdate(tx *gorm.DB) error {
	m.FeeStructureUpdatedAt = time.Now()
	return nil
}
