// file: internals/features/school/students/model/student_fee_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentFeeModel = satu entry ledger biaya per siswa per (term, session).
// Dimutasi hanya oleh sync engine, reconciliation passes, dan pencatatan
// pembayaran — tidak ada entitas lain yang boleh menulis ke sini.
//
// Catatan migrasi (Postgres): partial unique index
//
//	CREATE UNIQUE INDEX uq_student_fees_identity
//	  ON student_fees (student_fee_student_id,
//	                   lower(student_fee_term_name),
//	                   lower(student_fee_session_name))
//	  WHERE student_fee_deleted_at IS NULL;
//
// dibuat di SQL migrasi, bukan lewat tag GORM — index ini yang membuat
// insert ON CONFLICT DO NOTHING benar-benar idempotent saat dua sync
// balapan di classroom yang sama. Data lama (sebelum index ada) masih bisa
// mengandung duplikat; itu yang dibereskan DeduplicationPass.
type StudentFeeModel struct {
	// PK
	StudentFeeID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_fee_id" json:"student_fee_id"`

	// Owner
	StudentFeeStudentID uuid.UUID `gorm:"type:uuid;not null;index:ix_student_fees_student;column:student_fee_student_id" json:"student_fee_student_id"`

	// Identity key (snapshot nama term + session saat sync)
	StudentFeeTermName    string `gorm:"type:varchar(20);not null;column:student_fee_term_name" json:"student_fee_term_name"`
	StudentFeeSessionName string `gorm:"type:varchar(20);not null;column:student_fee_session_name" json:"student_fee_session_name"`

	// Nominal & status
	StudentFeeAmountIDR int  `gorm:"not null;check:student_fee_amount_idr>=0;column:student_fee_amount_idr" json:"student_fee_amount_idr"`
	StudentFeeIsPaid    bool `gorm:"not null;default:false;column:student_fee_is_paid" json:"student_fee_is_paid"`

	// PIN 6 digit untuk akses hasil/kuitansi
	StudentFeePinCode     string     `gorm:"type:varchar(6);not null;column:student_fee_pin_code" json:"student_fee_pin_code"`
	StudentFeeIsViewable  bool       `gorm:"not null;default:false;column:student_fee_is_viewable" json:"student_fee_is_viewable"`
	StudentFeePaymentDate *time.Time `gorm:"column:student_fee_payment_date" json:"student_fee_payment_date,omitempty"`

	// Audit
	StudentFeeUpdatedBy *uuid.UUID `gorm:"type:uuid;column:student_fee_updated_by" json:"student_fee_updated_by,omitempty"`

	StudentFeeCreatedAt time.Time      `gorm:"not null;column:student_fee_created_at" json:"student_fee_created_at"`
	StudentFeeUpdatedAt time.Time      `gorm:"not null;column:student_fee_updated_at" json:"student_fee_updated_at"`
	StudentFeeDeletedAt gorm.DeletedAt `gorm:"column:student_fee_deleted_at;index" json:"-"`
}

func (StudentFeeModel) TableName() string { return "student_fees" }

// IdentityKey = kunci (term, session) yang dipakai sync/dedup/backfill.
func (m *StudentFeeModel) IdentityKey() string {
	return FeeIdentityKey(m.StudentFeeTermName, m.StudentFeeSessionName)
}

// FeeIdentityKey menormalkan pasangan (term, session) jadi satu kunci map.
func FeeIdentityKey(termName, sessionName string) string {
	return strings.ToLower(strings.TrimSpace(termName)) + "|" + strings.ToLower(strings.TrimSpace(sessionName))
}

func (m *StudentFeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentFeeID == uuid.Nil {
		m.StudentFeeID = uuid.New()
	}
	now := time.Now()
	if m.StudentFeeCreatedAt.IsZero() {
		m.StudentFeeCreatedAt = now
	}
	if m.StudentFeeUpdatedAt.IsZero() {
		m.StudentFeeUpdatedAt = now
	}
	return nil
}

func (m *StudentFeeModel) BeforeUpdate(tx *gorm.DB) error {
	m.StudentFeeUpdatedAt = time.Now()
	return nil
}
