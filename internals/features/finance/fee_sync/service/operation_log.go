// file: internals/features/finance/fee_sync/service/operation_log.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "schoolku_backend/internals/features/finance/fee_sync/model"
)

// startOperation menulis row operation log berstatus "started".
func startOperation(
	ctx context.Context,
	db *gorm.DB,
	trigger model.FeeSyncTrigger,
	classroomID, termID *uuid.UUID,
	actorID uuid.UUID,
) (*model.FeeSyncOperationModel, error) {
	op := model.FeeSyncOperationModel{
		FeeSyncOperationClassroomID: classroomID,
		FeeSyncOperationTermID:      termID,
		FeeSyncOperationTrigger:     trigger,
		FeeSyncOperationStatus:      model.FeeSyncStatusStarted,
		FeeSyncOperationActorID:     actorID,
		FeeSyncOperationStartedAt:   time.Now(),
	}
	if err := db.WithContext(ctx).Create(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// finishOperation memfinalisasi row operation log. Gagal finalize tidak
// menggagalkan run-nya — hasil sudah di tangan caller; cukup dicatat.
func finishOperation(
	ctx context.Context,
	db *gorm.DB,
	op *model.FeeSyncOperationModel,
	status model.FeeSyncStatus,
	summary any,
	errs any,
) {
	if op == nil {
		return
	}
	now := time.Now()
	updates := map[string]any{
		"fee_sync_operation_status":      status,
		"fee_sync_operation_finished_at": now,
	}
	if summary != nil {
		if b, err := json.Marshal(summary); err == nil {
			updates["fee_sync_operation_summary"] = b
		}
	}
	if errs != nil {
		if b, err := json.Marshal(errs); err == nil {
			updates["fee_sync_operation_errors"] = b
		}
	}
	if err := db.WithContext(ctx).
		Model(&model.FeeSyncOperationModel{}).
		Where("fee_sync_operation_id = ?", op.FeeSyncOperationID).
		Updates(updates).Error; err != nil {
		log.Printf("[SYNC] gagal finalize operation %s: %v", op.FeeSyncOperationID, err)
	}
}

// GetOperation = lookup untuk GET /fees/operations/:id.
func GetOperation(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.FeeSyncOperationModel, error) {
	var op model.FeeSyncOperationModel
	if err := db.WithContext(ctx).
		First(&op, "fee_sync_operation_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &op, nil
}
