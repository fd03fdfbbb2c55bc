// file: internals/features/finance/fee_sync/service/sync_engine_test.go
package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

var pinPattern = regexp.MustCompile(`^\d{6}$`)

func TestSyncCreatesEntriesAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()
	actor := uuid.New()

	room := seedClassroom(t, db, "Primary 5A")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 500_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s1 := seedStudent(t, db, "Aisyah Putri", "ADM-001", &room.ClassroomID, admitted)
	s2 := seedStudent(t, db, "Budi Santoso", "ADM-002", &room.ClassroomID, admitted)
	s3 := seedStudent(t, db, "Citra Lestari", "ADM-003", &room.ClassroomID, admitted)

	res, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Students)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Errors)
	assert.NotEqual(t, uuid.Nil, res.OperationID)

	for _, s := range []uuid.UUID{s1.StudentID, s2.StudentID, s3.StudentID} {
		var fee studentModel.StudentFeeModel
		require.NoError(t, db.First(&fee, "student_fee_student_id = ?", s).Error)
		assert.Equal(t, "1st", fee.StudentFeeTermName)
		assert.Equal(t, "2024/2025", fee.StudentFeeSessionName)
		assert.Equal(t, 500_000, fee.StudentFeeAmountIDR)
		assert.False(t, fee.StudentFeeIsPaid)
		assert.False(t, fee.StudentFeeIsViewable)
		assert.Regexp(t, pinPattern, fee.StudentFeePinCode)
	}

	// run kedua: sudah konvergen
	res2, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Created)
	assert.Equal(t, 0, res2.Updated)
	assert.Equal(t, int64(1), countFees(t, db, s1.StudentID))
}

func TestSyncRepricesUnpaidEntries(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()
	actor := uuid.New()

	room := seedClassroom(t, db, "Primary 6B")
	term := seedTerm(t, db, "2nd", "2024/2025", true, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	st := seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 450_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Dewi Anggraini", "ADM-010", &room.ClassroomID, admitted)

	_, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)

	// nominal structure naik
	require.NoError(t, db.Model(&st).
		Update("fee_structure_amount_idr", 475_000).Error)
	engine.Catalog.Invalidate(room.ClassroomID)

	res, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerStructureUpdate)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)

	var fee studentModel.StudentFeeModel
	require.NoError(t, db.First(&fee, "student_fee_student_id = ?", s.StudentID).Error)
	assert.Equal(t, 475_000, fee.StudentFeeAmountIDR)
	require.NotNil(t, fee.StudentFeeUpdatedBy)
	assert.Equal(t, actor, *fee.StudentFeeUpdatedBy)
}

func TestSyncPaidEntriesAreFrozen(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()
	actor := uuid.New()

	room := seedClassroom(t, db, "Primary 4C")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	st := seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 300_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Eko Prasetyo", "ADM-020", &room.ClassroomID, admitted)
	fee := seedFee(t, db, s.StudentID, "1st", "2024/2025", 300_000, true)

	require.NoError(t, db.Model(&st).
		Update("fee_structure_amount_idr", 350_000).Error)
	engine.Catalog.Invalidate(room.ClassroomID)

	res, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerStructureUpdate)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)

	var got studentModel.StudentFeeModel
	require.NoError(t, db.First(&got, "student_fee_id = ?", fee.StudentFeeID).Error)
	assert.Equal(t, 300_000, got.StudentFeeAmountIDR, "amount paid harus terkunci")

	// kebijakan eksplisit: RepricePaid membuka kunci
	engine.RepricePaid = true
	res, err = engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerStructureUpdate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	require.NoError(t, db.First(&got, "student_fee_id = ?", fee.StudentFeeID).Error)
	assert.Equal(t, 350_000, got.StudentFeeAmountIDR)
}

func TestSyncBackfillsEmptyPin(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Primary 3A")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 250_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Fajar Nugroho", "ADM-030", &room.ClassroomID, admitted)

	// entry lama tanpa pin (data legacy)
	fee := studentModel.StudentFeeModel{
		StudentFeeStudentID:   s.StudentID,
		StudentFeeTermName:    "1st",
		StudentFeeSessionName: "2024/2025",
		StudentFeeAmountIDR:   250_000,
	}
	require.NoError(t, db.Create(&fee).Error)

	res, err := engine.Sync(ctx, room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	var got studentModel.StudentFeeModel
	require.NoError(t, db.First(&got, "student_fee_id = ?", fee.StudentFeeID).Error)
	assert.Regexp(t, pinPattern, got.StudentFeePinCode)
}

func TestSyncIdentityKeyIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Primary 2B")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 200_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Gita Ramadhani", "ADM-040", &room.ClassroomID, admitted)
	seedFee(t, db, s.StudentID, "1ST", "2024/2025", 200_000, false)

	res, err := engine.Sync(ctx, room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created, "entry beda kapitalisasi tetap dianggap sama")
	assert.Equal(t, int64(1), countFees(t, db, s.StudentID))
}

func TestSyncHonorsEligibilityWindow(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Primary 5D")
	past := seedTerm(t, db, "1st", "2023/2024", true, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	current := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, past.AcademicTermID, 100_000)
	seedStructure(t, db, room.ClassroomID, current.AcademicTermID, 120_000)

	// masuk setelah term lama berakhir → hanya ditagih term berjalan
	s := seedStudent(t, db, "Putri Maharani", "ADM-045", &room.ClassroomID,
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	res, err := engine.Sync(ctx, room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	var fees []studentModel.StudentFeeModel
	require.NoError(t, db.Find(&fees, "student_fee_student_id = ?", s.StudentID).Error)
	require.Len(t, fees, 1)
	assert.Equal(t, "2024/2025", fees[0].StudentFeeSessionName)
}

func TestSyncInactiveStudentsSkipped(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	room := seedClassroom(t, db, "Primary 1A")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 150_000)

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Hadi Wibowo", "ADM-050", &room.ClassroomID, admitted)
	require.NoError(t, db.Model(&s).Update("student_is_active", false).Error)

	res, err := engine.Sync(ctx, room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Students)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, int64(0), countFees(t, db, s.StudentID))
}

func TestSyncMissingClassroomIsStructuralError(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)

	_, err := engine.Sync(context.Background(), uuid.New(), uuid.New(), syncModel.FeeSyncTriggerManual)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestSyncNoActiveStructuresIsNoOp(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)

	room := seedClassroom(t, db, "Empty Room")
	res, err := engine.Sync(context.Background(), room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, uuid.Nil, res.OperationID, "no-op tidak bikin operation log")

	var ops int64
	require.NoError(t, db.Model(&syncModel.FeeSyncOperationModel{}).Count(&ops).Error)
	assert.Zero(t, ops)
}

func TestSyncStudentRequiresClassroom(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seedStudent(t, db, "Indah Permata", "ADM-060", nil, admitted)

	_, err := engine.SyncStudent(ctx, s.StudentID, uuid.New())
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	_, err = engine.SyncStudent(ctx, uuid.New(), uuid.New())
	require.Error(t, err)
	fe, ok = err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestSyncAllAggregatesAcrossClassrooms(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()

	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	admitted := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	roomA := seedClassroom(t, db, "Room A")
	seedStructure(t, db, roomA.ClassroomID, term.AcademicTermID, 100_000)
	seedStudent(t, db, "Joko Susilo", "ADM-070", &roomA.ClassroomID, admitted)

	roomB := seedClassroom(t, db, "Room B")
	seedStructure(t, db, roomB.ClassroomID, term.AcademicTermID, 120_000)
	seedStudent(t, db, "Kartika Sari", "ADM-071", &roomB.ClassroomID, admitted)
	seedStudent(t, db, "Lukman Hakim", "ADM-072", &roomB.ClassroomID, admitted)

	agg, err := engine.SyncAll(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Classrooms)
	assert.Equal(t, 3, agg.Created)
	assert.Zero(t, agg.Errors)
	assert.Len(t, agg.Results, 2)
}

func TestSyncOperationLogLifecycle(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)
	ctx := context.Background()
	actor := uuid.New()

	room := seedClassroom(t, db, "Room Log")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 100_000)
	seedStudent(t, db, "Mega Utami", "ADM-080", &room.ClassroomID,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	res, err := engine.Sync(ctx, room.ClassroomID, actor, syncModel.FeeSyncTriggerManual)
	require.NoError(t, err)

	op, err := GetOperation(ctx, db, res.OperationID)
	require.NoError(t, err)
	assert.Equal(t, syncModel.FeeSyncStatusCompleted, op.FeeSyncOperationStatus)
	assert.Equal(t, syncModel.FeeSyncTriggerManual, op.FeeSyncOperationTrigger)
	assert.Equal(t, actor, op.FeeSyncOperationActorID)
	require.NotNil(t, op.FeeSyncOperationClassroomID)
	assert.Equal(t, room.ClassroomID, *op.FeeSyncOperationClassroomID)
	assert.NotNil(t, op.FeeSyncOperationFinishedAt)
	assert.NotEmpty(t, op.FeeSyncOperationSummary)
}

func TestSyncCanceledContextIsolatesError(t *testing.T) {
	db := newTestDB(t)
	engine := newTestEngine(db)

	room := seedClassroom(t, db, "Room Cancel")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 100_000)
	seedStudent(t, db, "Nina Kurnia", "ADM-090", &room.ClassroomID,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// classroom lookup pakai ctx → run gagal sebelum write apa pun
	_, err := engine.Sync(ctx, room.ClassroomID, uuid.New(), syncModel.FeeSyncTriggerManual)
	require.Error(t, err)

	var fees int64
	require.NoError(t, db.Model(&studentModel.StudentFeeModel{}).Count(&fees).Error)
	assert.Zero(t, fees)
}
