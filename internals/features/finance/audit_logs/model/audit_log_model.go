// file: internals/features/finance/audit_logs/model/audit_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AuditLogModel = sink untuk deskripsi human-readable setiap mutating call.
// Append-only, tidak pernah di-update/di-delete oleh aplikasi.
type AuditLogModel struct {
	AuditLogID uuid.UUID `gorm:"type:uuid;primaryKey;column:audit_log_id" json:"audit_log_id"`

	AuditLogActorID uuid.UUID `gorm:"type:uuid;not null;index:ix_audit_logs_actor;column:audit_log_actor_id" json:"audit_log_actor_id"`

	// Contoh action: "fee_structure.create", "fee_sync.run", "reconcile.full"
	AuditLogAction      string `gorm:"type:varchar(60);not null;index:ix_audit_logs_action;column:audit_log_action" json:"audit_log_action"`
	AuditLogDescription string `gorm:"type:text;not null;column:audit_log_description" json:"audit_log_description"`

	// Label bebas untuk filter (classroom id, term name, dsb)
	AuditLogTags pq.StringArray `gorm:"type:text[];column:audit_log_tags" json:"audit_log_tags,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"not null;column:audit_log_created_at" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }

func (m *AuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuditLogID == uuid.Nil {
		m.AuditLogID = uuid.New()
	}
	if m.AuditLogCreatedAt.IsZero() {
		m.AuditLogCreatedAt = time.Now()
	}
	return nil
}
