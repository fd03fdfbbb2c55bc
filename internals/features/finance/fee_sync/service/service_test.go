// file: internals/features/finance/fee_sync/service/service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	structureModel "schoolku_backend/internals/features/finance/fee_structures/model"
	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	termModel "schoolku_backend/internals/features/school/academic_terms/model"
	classModel "schoolku_backend/internals/features/school/classrooms/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// newTestDB: sqlite in-memory, satu koneksi supaya semua query lihat DB yang
// sama. Tidak ada partial unique index di sini (itu urusan migrasi Postgres)
// — justru itu yang membuat test dedup bisa seed duplikat.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&classModel.ClassroomModel{},
		&termModel.AcademicTermModel{},
		&structureModel.FeeStructureModel{},
		&studentModel.StudentModel{},
		&studentModel.StudentFeeModel{},
		&syncModel.FeeSyncOperationModel{},
	))
	return db
}

func newTestCatalog(db *gorm.DB) *structureSvc.Catalog {
	return structureSvc.NewCatalog(db, time.Minute, time.Now)
}

func newTestEngine(db *gorm.DB) *SyncEngine {
	return NewSyncEngine(db, newTestCatalog(db))
}

func seedClassroom(t *testing.T, db *gorm.DB, name string) classModel.ClassroomModel {
	t.Helper()
	room := classModel.ClassroomModel{ClassroomName: name, ClassroomIsActive: true}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedTerm(t *testing.T, db *gorm.DB, name, session string, active bool, end time.Time) termModel.AcademicTermModel {
	t.Helper()
	term := termModel.AcademicTermModel{
		AcademicTermName:      name,
		AcademicTermSession:   session,
		AcademicTermStartDate: end.AddDate(0, -6, 0),
		AcademicTermEndDate:   end,
		AcademicTermIsActive:  active,
	}
	require.NoError(t, db.Create(&term).Error)
	return term
}

func seedStructure(t *testing.T, db *gorm.DB, classroomID, termID uuid.UUID, amount int) structureModel.FeeStructureModel {
	t.Helper()
	st := structureModel.FeeStructureModel{
		FeeStructureClassroomID: classroomID,
		FeeStructureTermID:      termID,
		FeeStructureAmountIDR:   amount,
		FeeStructureIsActive:    true,
		FeeStructureCreatedBy:   uuid.New(),
	}
	require.NoError(t, db.Create(&st).Error)
	return st
}

func seedStudent(t *testing.T, db *gorm.DB, name, admissionNo string, classroomID *uuid.UUID, admitted time.Time) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentFullName:      name,
		StudentAdmissionNo:   admissionNo,
		StudentClassroomID:   classroomID,
		StudentAdmissionDate: admitted,
		StudentIsActive:      true,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedFee(t *testing.T, db *gorm.DB, studentID uuid.UUID, term, session string, amount int, paid bool) studentModel.StudentFeeModel {
	t.Helper()
	f := studentModel.StudentFeeModel{
		StudentFeeStudentID:   studentID,
		StudentFeeTermName:    term,
		StudentFeeSessionName: session,
		StudentFeeAmountIDR:   amount,
		StudentFeeIsPaid:      paid,
		StudentFeePinCode:     "123456",
	}
	require.NoError(t, db.Create(&f).Error)
	return f
}

// Kolom waktu harus bisa di-scan balik di harness sqlite — model tidak
// boleh memaksa decltype Postgres lewat tag gorm.
func TestSeededModelsReloadWithTimestamps(t *testing.T) {
	db := newTestDB(t)

	room := seedClassroom(t, db, "Reload Room")
	term := seedTerm(t, db, "1st", "2024/2025", true, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	st := seedStructure(t, db, room.ClassroomID, term.AcademicTermID, 100_000)
	s := seedStudent(t, db, "Oki Saputra", "ADM-095", &room.ClassroomID,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	fee := seedFee(t, db, s.StudentID, "1st", "2024/2025", 100_000, false)

	var gotRoom classModel.ClassroomModel
	require.NoError(t, db.First(&gotRoom, "classroom_id = ?", room.ClassroomID).Error)
	require.False(t, gotRoom.ClassroomCreatedAt.IsZero())

	var gotTerm termModel.AcademicTermModel
	require.NoError(t, db.First(&gotTerm, "academic_term_id = ?", term.AcademicTermID).Error)
	require.False(t, gotTerm.AcademicTermEndDate.IsZero())

	var gotSt structureModel.FeeStructureModel
	require.NoError(t, db.First(&gotSt, "fee_structure_id = ?", st.FeeStructureID).Error)
	require.False(t, gotSt.FeeStructureCreatedAt.IsZero())

	var gotStudent studentModel.StudentModel
	require.NoError(t, db.First(&gotStudent, "student_id = ?", s.StudentID).Error)
	require.False(t, gotStudent.StudentAdmissionDate.IsZero())

	var gotFee studentModel.StudentFeeModel
	require.NoError(t, db.First(&gotFee, "student_fee_id = ?", fee.StudentFeeID).Error)
	require.False(t, gotFee.StudentFeeCreatedAt.IsZero())
	require.False(t, gotFee.StudentFeeUpdatedAt.IsZero())
}

func countFees(t *testing.T, db *gorm.DB, studentID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&studentModel.StudentFeeModel{}).
		Where("student_fee_student_id = ?", studentID).
		Count(&n).Error)
	return n
}
