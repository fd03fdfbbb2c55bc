// file: internals/features/finance/fee_sync/service/reconciler_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
)

func newTestReconciler(db *gorm.DB) *Reconciler {
	catalog := newTestCatalog(db)
	return NewReconciler(db, NewDedupPass(db), NewBackfillPass(db, catalog))
}

func TestFullReconciliationDedupsThenBackfills(t *testing.T) {
	db := newTestDB(t)
	rec := newTestReconciler(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Room Full")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 500_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	// siswa A: duplikat di term berjalan
	a := seedStudent(t, db, "Citra Handayani", "ADM-400", &room.ClassroomID, admitted)
	seedFeeAt(t, db, a.StudentID, "1st", "2024/2025", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, a.StudentID, "1st", "2024/2025", time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC))

	// siswa B: belum punya entry sama sekali
	b := seedStudent(t, db, "Dimas Aditya", "ADM-401", &room.ClassroomID, admitted)

	res, err := rec.FullReconciliation(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deduplication.DuplicatesRemoved)
	assert.Equal(t, 1, res.Backfill.FeesBackfilled)
	assert.Zero(t, res.TotalErrors)

	// dedup dulu baru backfill: survivor siswa A tidak dibuat ulang
	assert.Equal(t, int64(1), countFees(t, db, a.StudentID))
	assert.Equal(t, int64(1), countFees(t, db, b.StudentID))

	op, err := GetOperation(ctx, db, res.OperationID)
	require.NoError(t, err)
	assert.Equal(t, syncModel.FeeSyncStatusCompleted, op.FeeSyncOperationStatus)
	assert.Equal(t, syncModel.FeeSyncTriggerReconciliation, op.FeeSyncOperationTrigger)

	// sub-pass punya operation log masing-masing + satu orchestrator
	var ops int64
	require.NoError(t, db.Model(&syncModel.FeeSyncOperationModel{}).Count(&ops).Error)
	assert.Equal(t, int64(3), ops)
}

func TestFullReconciliationConverges(t *testing.T) {
	db := newTestDB(t)
	rec := newTestReconciler(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Room Conv")
	term := seedTerm(t, db, "2nd", "2024/2025", true, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 450_000)
	seedStudent(t, db, "Elok Wahyuni", "ADM-410", &room.ClassroomID,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	res1, err := rec.FullReconciliation(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res1.Backfill.FeesBackfilled)

	res2, err := rec.FullReconciliation(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, res2.Deduplication.DuplicatesRemoved)
	assert.Zero(t, res2.Backfill.FeesBackfilled)
	assert.Zero(t, res2.TotalErrors)
}
