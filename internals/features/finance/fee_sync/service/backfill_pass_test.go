// file: internals/features/finance/fee_sync/service/backfill_pass_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	studentModel "schoolku_backend/internals/features/school/students/model"
)

func TestBackfillCreatesMissingEntries(t *testing.T) {
	db := newTestDB(t)
	pass := NewBackfillPass(db, newTestCatalog(db))
	ctx := context.Background()

	room := seedClassroom(t, db, "Room BF")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 400_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	withEntry := seedStudent(t, db, "Sari Melati", "ADM-200", &room.ClassroomID, admitted)
	seedFee(t, db, withEntry.StudentID, "1st", "2024/2025", 400_000, false)
	without := seedStudent(t, db, "Tono Prabowo", "ADM-201", &room.ClassroomID, admitted)

	res, err := pass.Run(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.MissingFeesFound)
	assert.Equal(t, 1, res.FeesBackfilled)
	assert.Empty(t, res.Errors)

	var fee studentModel.StudentFeeModel
	require.NoError(t, db.First(&fee, "student_fee_student_id = ?", without.StudentID).Error)
	assert.Equal(t, 400_000, fee.StudentFeeAmountIDR)
	assert.False(t, fee.StudentFeeIsPaid)
	assert.Regexp(t, pinPattern, fee.StudentFeePinCode)

	// idempotent
	res2, err := pass.Run(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, res2.MissingFeesFound)
	assert.Zero(t, res2.FeesBackfilled)
}

func TestBackfillHonorsEligibilityWindow(t *testing.T) {
	db := newTestDB(t)
	pass := NewBackfillPass(db, newTestCatalog(db))
	ctx := context.Background()

	room := seedClassroom(t, db, "Room Elig")
	// term lama yang sudah berakhir sebelum siswa masuk
	past := seedTerm(t, db, "3rd", "2023/2024", false, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, past.AcademicTermID, 350_000)
	// term berjalan
	current := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, current.AcademicTermID, 400_000)

	// masuk 2024-09-01: setelah term lama berakhir, sebelum term berjalan habis
	s := seedStudent(t, db, "Umar Fadli", "ADM-210", &room.ClassroomID,
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	res, err := pass.Run(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, res.FeesBackfilled)

	var fees []studentModel.StudentFeeModel
	require.NoError(t, db.Where("student_fee_student_id = ?", s.StudentID).Find(&fees).Error)
	require.Len(t, fees, 1)
	assert.Equal(t, "1st", fees[0].StudentFeeTermName)
	assert.Equal(t, "2024/2025", fees[0].StudentFeeSessionName)
}

func TestBackfillSkipsStudentsWithoutClassroom(t *testing.T) {
	db := newTestDB(t)
	pass := NewBackfillPass(db, newTestCatalog(db))

	room := seedClassroom(t, db, "Room Skip")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 300_000)

	s := seedStudent(t, db, "Vina Oktavia", "ADM-220", nil,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	res, err := pass.Run(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, res.Processed)
	assert.Equal(t, int64(0), countFees(t, db, s.StudentID))
}
