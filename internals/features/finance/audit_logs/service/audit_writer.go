// file: internals/features/finance/audit_logs/service/audit_writer.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "schoolku_backend/internals/features/finance/audit_logs/model"
)

// Record menulis satu baris audit. Gagal menulis audit tidak boleh
// menggagalkan operasi utamanya — cukup dicatat ke log.
func Record(ctx context.Context, db *gorm.DB, actorID uuid.UUID, action, description string, tags ...string) {
	row := model.AuditLogModel{
		AuditLogActorID:     actorID,
		AuditLogAction:      action,
		AuditLogDescription: description,
		AuditLogTags:        tags,
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal menulis audit log action=%s: %v", action, err)
	}
}
