// file: internals/features/finance/fee_structures/service/catalog.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/helpers/cache"
)

// CatalogEntry = satu fee structure aktif yang sudah di-join dengan term-nya.
// Ini read-model yang dipakai sync engine & health check — source of truth
// untuk nominal dan activation state.
type CatalogEntry struct {
	StructureID uuid.UUID `gorm:"column:fee_structure_id" json:"structure_id"`
	ClassroomID uuid.UUID `gorm:"column:fee_structure_classroom_id" json:"classroom_id"`
	TermID      uuid.UUID `gorm:"column:fee_structure_term_id" json:"term_id"`
	TermName    string    `gorm:"column:academic_term_name" json:"term_name"`
	SessionName string    `gorm:"column:academic_term_session" json:"session_name"`
	TermEndDate time.Time `gorm:"column:academic_term_end_date" json:"term_end_date"`
	AmountIDR   int       `gorm:"column:fee_structure_amount_idr" json:"amount_idr"`
}

// Catalog = view read-only di atas fee_structures + academic_terms, dengan
// cache TTL per classroom. Cache di-invalidate eksplisit oleh controller
// saat structure dibuat/diubah/dihapus.
type Catalog struct {
	db    *gorm.DB
	cache *cache.TTLCache[uuid.UUID, []CatalogEntry]
}

func NewCatalog(db *gorm.DB, ttl time.Duration, now func() time.Time) *Catalog {
	return &Catalog{
		db:    db,
		cache: cache.New[uuid.UUID, []CatalogEntry](ttl, now),
	}
}

const catalogSelect = `fee_structures.fee_structure_id,
fee_structures.fee_structure_classroom_id,
fee_structures.fee_structure_term_id,
fee_structures.fee_structure_amount_idr,
academic_terms.academic_term_name,
academic_terms.academic_term_session,
academic_terms.academic_term_end_date`

// ActiveForClassroom mengembalikan semua structure aktif milik satu classroom.
func (ct *Catalog) ActiveForClassroom(ctx context.Context, classroomID uuid.UUID) ([]CatalogEntry, error) {
	if hit, ok := ct.cache.Get(classroomID); ok {
		return hit, nil
	}

	var rows []CatalogEntry
	err := ct.db.WithContext(ctx).
		Table("fee_structures").
		Select(catalogSelect).
		Joins("JOIN academic_terms ON academic_terms.academic_term_id = fee_structures.fee_structure_term_id").
		Where("fee_structures.fee_structure_classroom_id = ?", classroomID).
		Where("fee_structures.fee_structure_is_active = ?", true).
		Where("fee_structures.fee_structure_deleted_at IS NULL").
		Where("academic_terms.academic_term_deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ct.cache.Set(classroomID, rows)
	return rows, nil
}

// ActiveAll mengembalikan semua structure aktif, dikelompokkan per classroom.
// Tidak lewat cache: dipakai pass global (backfill, health check) yang butuh
// snapshot konsisten sekali baca.
func (ct *Catalog) ActiveAll(ctx context.Context) (map[uuid.UUID][]CatalogEntry, error) {
	var rows []CatalogEntry
	err := ct.db.WithContext(ctx).
		Table("fee_structures").
		Select(catalogSelect).
		Joins("JOIN academic_terms ON academic_terms.academic_term_id = fee_structures.fee_structure_term_id").
		Where("fee_structures.fee_structure_is_active = ?", true).
		Where("fee_structures.fee_structure_deleted_at IS NULL").
		Where("academic_terms.academic_term_deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]CatalogEntry, len(rows))
	for _, r := range rows {
		grouped[r.ClassroomID] = append(grouped[r.ClassroomID], r)
	}
	return grouped, nil
}

// ClassroomIDsWithActiveStructures = daftar classroom yang punya structure
// aktif (dipakai sync-all).
func (ct *Catalog) ClassroomIDsWithActiveStructures(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := ct.db.WithContext(ctx).
		Table("fee_structures").
		Distinct("fee_structure_classroom_id").
		Where("fee_structure_is_active = ?", true).
		Where("fee_structure_deleted_at IS NULL").
		Pluck("fee_structure_classroom_id", &ids).Error
	return ids, err
}

// ClassroomIDsForTerm = classroom yang disentuh structure aktif milik satu term.
func (ct *Catalog) ClassroomIDsForTerm(ctx context.Context, termID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := ct.db.WithContext(ctx).
		Table("fee_structures").
		Distinct("fee_structure_classroom_id").
		Where("fee_structure_term_id = ?", termID).
		Where("fee_structure_is_active = ?", true).
		Where("fee_structure_deleted_at IS NULL").
		Pluck("fee_structure_classroom_id", &ids).Error
	return ids, err
}

// Invalidate membuang cache satu classroom (dipanggil setiap mutasi structure).
func (ct *Catalog) Invalidate(classroomID uuid.UUID) {
	ct.cache.Invalidate(classroomID)
}
