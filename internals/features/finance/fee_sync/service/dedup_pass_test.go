// file: internals/features/finance/fee_sync/service/dedup_pass_test.go
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
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// seedFeeAt: entry dengan timestamp terkontrol untuk menguji pemilihan survivor.
func seedFeeAt(t *testing.T, db *gorm.DB, studentID uuid.UUID, term, session string, touched time.Time) studentModel.StudentFeeModel {
	t.Helper()
	f := studentModel.StudentFeeModel{
		StudentFeeStudentID:   studentID,
		StudentFeeTermName:    term,
		StudentFeeSessionName: session,
		StudentFeeAmountIDR:   100_000,
		StudentFeePinCode:     "654321",
		StudentFeeCreatedAt:   touched,
		StudentFeeUpdatedAt:   touched,
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

func TestDedupKeepsMostRecentlyTouched(t *testing.T) {
	db := newTestDB(t)
	pass := NewDedupPass(db)
	ctx := context.Background()

	s := seedStudent(t, db, "Oki Saputra", "ADM-100", nil,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	older := seedFeeAt(t, db, s.StudentID, "1st", "2024/2025",
		time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC))
	newer := seedFeeAt(t, db, s.StudentID, "1st", "2024/2025",
		time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC))

	res, err := pass.Run(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res.DuplicatesFound)
	assert.Equal(t, 1, res.DuplicatesRemoved)
	assert.Empty(t, res.Errors)

	var remaining []studentModel.StudentFeeModel
	require.NoError(t, db.Where("student_fee_student_id = ?", s.StudentID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, newer.StudentFeeID, remaining[0].StudentFeeID)

	// soft delete: row loser masih ada di storage
	var withDeleted int64
	require.NoError(t, db.Unscoped().Model(&studentModel.StudentFeeModel{}).
		Where("student_fee_id = ?", older.StudentFeeID).
		Count(&withDeleted).Error)
	assert.Equal(t, int64(1), withDeleted)

	// konvergen: run kedua tidak menemukan apa-apa
	res2, err := pass.Run(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, res2.DuplicatesFound)
	assert.Zero(t, res2.DuplicatesRemoved)
}

func TestDedupKeyIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	pass := NewDedupPass(db)

	s := seedStudent(t, db, "Putra Ananda", "ADM-110", nil,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, s.StudentID, "1st", "2024/2025",
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, s.StudentID, "1ST", "2024/2025",
		time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC))

	res, err := pass.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res.DuplicatesRemoved)
	assert.Equal(t, int64(1), countFees(t, db, s.StudentID))
}

func TestDedupIdenticalRowsLeaveExactlyOneSurvivor(t *testing.T) {
	db := newTestDB(t)
	pass := NewDedupPass(db)

	s := seedStudent(t, db, "Qori Maulida", "ADM-120", nil,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	// tiga entry dengan kunci DAN timestamp identik — removal harus by PK,
	// match by-field akan menghapus semuanya termasuk survivor
	same := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	seedFeeAt(t, db, s.StudentID, "2nd", "2024/2025", same)
	seedFeeAt(t, db, s.StudentID, "2nd", "2024/2025", same)
	seedFeeAt(t, db, s.StudentID, "2nd", "2024/2025", same)

	res, err := pass.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DuplicatesFound)
	assert.Equal(t, 2, res.DuplicatesRemoved)
	assert.Equal(t, int64(1), countFees(t, db, s.StudentID))
}

func TestDedupDistinctKeysUntouched(t *testing.T) {
	db := newTestDB(t)
	pass := NewDedupPass(db)

	s := seedStudent(t, db, "Rudi Hartanto", "ADM-130", nil,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, s.StudentID, "1st", "2024/2025",
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, s.StudentID, "2nd", "2024/2025",
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedFeeAt(t, db, s.StudentID, "1st", "2025/2026",
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))

	res, err := pass.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, res.DuplicatesFound)
	assert.Equal(t, int64(3), countFees(t, db, s.StudentID))

	op, err := GetOperation(context.Background(), db, res.OperationID)
	require.NoError(t, err)
	assert.Equal(t, syncModel.FeeSyncStatusCompleted, op.FeeSyncOperationStatus)
}
