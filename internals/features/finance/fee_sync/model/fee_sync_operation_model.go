// file: internals/features/finance/fee_sync/model/fee_sync_operation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeSyncStatus string

const (
	FeeSyncStatusStarted   FeeSyncStatus = "started"
	FeeSyncStatusCompleted FeeSyncStatus = "completed"
	FeeSyncStatusFailed    FeeSyncStatus = "failed"
)

type FeeSyncTrigger string

const (
	FeeSyncTriggerManual          FeeSyncTrigger = "manual"
	FeeSyncTriggerStructureCreate FeeSyncTrigger = "structure_create"
	FeeSyncTriggerStructureUpdate FeeSyncTrigger = "structure_update"
	FeeSyncTriggerTermActivation  FeeSyncTrigger = "term_activation"
	FeeSyncTriggerStudent         FeeSyncTrigger = "student"
	FeeSyncTriggerSyncAll         FeeSyncTrigger = "sync_all"
	FeeSyncTriggerReconciliation  FeeSyncTrigger = "reconciliation"
	FeeSyncTriggerScheduler       FeeSyncTrigger = "scheduler"
)

// FeeSyncOperationModel = operation log: satu row per run sync/reconcile.
// Row memodelkan "apa yang sudah terjadi", bukan state in-flight — tidak ada
// run yang resumable/paused.
type FeeSyncOperationModel struct {
	// PK = operation id yang dikembalikan ke caller
	FeeSyncOperationID uuid.UUID `gorm:"type:uuid;primaryKey;column:fee_sync_operation_id" json:"fee_sync_operation_id"`

	// Scope (nullable: reconciliation jalan lintas classroom)
	FeeSyncOperationClassroomID *uuid.UUID `gorm:"type:uuid;index:ix_fee_sync_operations_classroom;column:fee_sync_operation_classroom_id" json:"fee_sync_operation_classroom_id,omitempty"`
	FeeSyncOperationTermID      *uuid.UUID `gorm:"type:uuid;column:fee_sync_operation_term_id" json:"fee_sync_operation_term_id,omitempty"`

	FeeSyncOperationTrigger FeeSyncTrigger `gorm:"type:varchar(30);not null;column:fee_sync_operation_trigger" json:"fee_sync_operation_trigger"`
	FeeSyncOperationStatus  FeeSyncStatus  `gorm:"type:varchar(20);not null;default:'started';column:fee_sync_operation_status" json:"fee_sync_operation_status"`

	// Counts & errors (jsonb)
	FeeSyncOperationSummary datatypes.JSON `gorm:"type:jsonb;column:fee_sync_operation_summary" json:"fee_sync_operation_summary,omitempty"`
	FeeSyncOperationErrors  datatypes.JSON `gorm:"type:jsonb;column:fee_sync_operation_errors" json:"fee_sync_operation_errors,omitempty"`

	// Aktor
	FeeSyncOperationActorID uuid.UUID `gorm:"type:uuid;not null;column:fee_sync_operation_actor_id" json:"fee_sync_operation_actor_id"`

	FeeSyncOperationStartedAt  time.Time  `gorm:"not null;column:fee_sync_operation_started_at" json:"fee_sync_operation_started_at"`
	FeeSyncOperationFinishedAt *time.Time `gorm:"column:fee_sync_operation_finished_at" json:"fee_sync_operation_finished_at,omitempty"`
}

func (FeeSyncOperationModel) TableName() string { return "fee_sync_operations" }

func (m *FeeSyncOperationModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeSyncOperationID == uuid.Nil {
		m.FeeSyncOperationID = uuid.New()
	}
	if m.FeeSyncOperationStartedAt.IsZero() {
		m.FeeSyncOperationStartedAt = time.Now()
	}
	return nil
}
