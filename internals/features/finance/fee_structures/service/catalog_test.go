// file: internals/features/finance/fee_structures/service/catalog_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	structureModel "schoolku_backend/internals/features/finance/fee_structures/model"
	termModel "schoolku_backend/internals/features/school/academic_terms/model"
)

func newCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&termModel.AcademicTermModel{},
		&structureModel.FeeStructureModel{},
	))
	return db
}

func seedCatalogTerm(t *testing.T, db *gorm.DB, name, session string) termModel.AcademicTermModel {
	t.Helper()
	end := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	term := termModel.AcademicTermModel{
		AcademicTermName:      name,
		AcademicTermSession:   session,
		AcademicTermStartDate: end.AddDate(0, -6, 0),
		AcademicTermEndDate:   end,
	}
	require.NoError(t, db.Create(&term).Error)
	return term
}

func seedCatalogStructure(t *testing.T, db *gorm.DB, classroomID, termID uuid.UUID, amount int, active bool) structureModel.FeeStructureModel {
	t.Helper()
	st := structureModel.FeeStructureModel{
		FeeStructureClassroomID: classroomID,
		FeeStructureTermID:      termID,
		FeeStructureAmountIDR:   amount,
		FeeStructureIsActive:    active,
		FeeStructureCreatedBy:   uuid.New(),
	}
	require.NoError(t, db.Create(&st).Error)
	return st
}

// Structure yang dibuat inactive harus tersimpan inactive — bool
// ber-default di tag membuat Create men-skip nilai false (zero value),
// makanya tag default dibuang dari model.
func TestStructureSeededInactiveStaysInactive(t *testing.T) {
	db := newCatalogTestDB(t)
	term := seedCatalogTerm(t, db, "1st", "2024/2025")
	st := seedCatalogStructure(t, db, uuid.New(), term.AcademicTermID, 100_000, false)

	var got structureModel.FeeStructureModel
	require.NoError(t, db.First(&got, "fee_structure_id = ?", st.FeeStructureID).Error)
	assert.False(t, got.FeeStructureIsActive)
}

func TestCatalogActiveForClassroomFiltersAndJoins(t *testing.T) {
	db := newCatalogTestDB(t)
	catalog := NewCatalog(db, time.Minute, time.Now)
	ctx := context.Background()

	classroomID := uuid.New()
	otherRoom := uuid.New()
	term := seedCatalogTerm(t, db, "1st", "2024/2025")

	seedCatalogStructure(t, db, classroomID, term.AcademicTermID, 500_000, true)
	seedCatalogStructure(t, db, classroomID, term.AcademicTermID, 100_000, false) // inactive
	seedCatalogStructure(t, db, otherRoom, term.AcademicTermID, 200_000, true)    // classroom lain

	entries, err := catalog.ActiveForClassroom(ctx, classroomID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 500_000, entries[0].AmountIDR)
	assert.Equal(t, "1st", entries[0].TermName)
	assert.Equal(t, "2024/2025", entries[0].SessionName)
	assert.Equal(t, term.AcademicTermEndDate.UTC(), entries[0].TermEndDate.UTC())
}

func TestCatalogCachesUntilInvalidated(t *testing.T) {
	db := newCatalogTestDB(t)
	catalog := NewCatalog(db, time.Minute, time.Now)
	ctx := context.Background()

	classroomID := uuid.New()
	term := seedCatalogTerm(t, db, "1st", "2024/2025")
	st := seedCatalogStructure(t, db, classroomID, term.AcademicTermID, 500_000, true)

	first, err := catalog.ActiveForClassroom(ctx, classroomID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// mutasi tanpa invalidate → masih dapat snapshot lama dari cache
	require.NoError(t, db.Model(&st).Update("fee_structure_amount_idr", 999_000).Error)
	cached, err := catalog.ActiveForClassroom(ctx, classroomID)
	require.NoError(t, err)
	assert.Equal(t, 500_000, cached[0].AmountIDR)

	catalog.Invalidate(classroomID)
	fresh, err := catalog.ActiveForClassroom(ctx, classroomID)
	require.NoError(t, err)
	assert.Equal(t, 999_000, fresh[0].AmountIDR)
}

func TestCatalogActiveAllGroupsByClassroom(t *testing.T) {
	db := newCatalogTestDB(t)
	catalog := NewCatalog(db, time.Minute, time.Now)
	ctx := context.Background()

	roomA := uuid.New()
	roomB := uuid.New()
	t1 := seedCatalogTerm(t, db, "1st", "2024/2025")
	t2 := seedCatalogTerm(t, db, "2nd", "2024/2025")

	seedCatalogStructure(t, db, roomA, t1.AcademicTermID, 100_000, true)
	seedCatalogStructure(t, db, roomA, t2.AcademicTermID, 110_000, true)
	seedCatalogStructure(t, db, roomB, t1.AcademicTermID, 120_000, true)

	grouped, err := catalog.ActiveAll(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped[roomA], 2)
	assert.Len(t, grouped[roomB], 1)
}

func TestCatalogClassroomIDsForTerm(t *testing.T) {
	db := newCatalogTestDB(t)
	catalog := NewCatalog(db, time.Minute, time.Now)
	ctx := context.Background()

	roomA := uuid.New()
	roomB := uuid.New()
	t1 := seedCatalogTerm(t, db, "1st", "2024/2025")
	t2 := seedCatalogTerm(t, db, "2nd", "2024/2025")

	seedCatalogStructure(t, db, roomA, t1.AcademicTermID, 100_000, true)
	seedCatalogStructure(t, db, roomB, t2.AcademicTermID, 120_000, true)
	seedCatalogStructure(t, db, roomB, t1.AcademicTermID, 130_000, false)

	ids, err := catalog.ClassroomIDsForTerm(ctx, t1.AcademicTermID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, roomA, ids[0])

	all, err := catalog.ClassroomIDsWithActiveStructures(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
