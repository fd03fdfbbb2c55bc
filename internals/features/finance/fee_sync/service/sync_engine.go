// file: internals/features/finance/fee_sync/service/sync_engine.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	classModel "schoolku_backend/internals/features/school/classrooms/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

// defaultBatchSize membatasi besar satu round-trip bulk write.
const defaultBatchSize = 500

// SyncError = kegagalan satu batch/item di dalam run; cukup konteks untuk
// retry manual (offset batch + siswa terkait bila ada).
type SyncError struct {
	BatchOffset int    `json:"batch_offset"`
	StudentID   string `json:"student_id,omitempty"`
	Message     string `json:"message"`
}

// SyncResult = hasil satu run sync untuk satu classroom.
type SyncResult struct {
	OperationID uuid.UUID   `json:"operation_id"`
	ClassroomID uuid.UUID   `json:"classroom_id"`
	Students    int         `json:"synced_students"`
	Attempted   int         `json:"attempted"`
	Created     int         `json:"created"`
	Updated     int         `json:"updated"`
	Skipped     int         `json:"skipped"`
	Errors      []SyncError `json:"errors"`
}

// SyncEngine menghitung delta antara fee structure catalog dan ledger siswa
// untuk satu classroom, lalu menerapkannya sebagai batch idempotent.
//
// RepricePaid: kalau false (default), entry yang sudah paid tidak ikut
// dikoreksi nominalnya — payment membekukan history. Dibuat eksplisit karena
// sumber kebijakannya masih keputusan produk.
type SyncEngine struct {
	DB          *gorm.DB
	Catalog     *structureSvc.Catalog
	BatchSize   int
	RepricePaid bool
}

func NewSyncEngine(db *gorm.DB, catalog *structureSvc.Catalog) *SyncEngine {
	return &SyncEngine{
		DB:        db,
		Catalog:   catalog,
		BatchSize: defaultBatchSize,
	}
}

func (e *SyncEngine) batchSize() int {
	if e.BatchSize > 0 {
		return e.BatchSize
	}
	return defaultBatchSize
}

// pendingUpdate = satu koreksi per entry (amount / pin backfill).
type pendingUpdate struct {
	feeID     uuid.UUID
	studentID uuid.UUID
	fields    map[string]any
}

// Sync menjalankan satu run untuk satu classroom.
//
//   - classroom tidak ada            → structural error (404), tidak ada write
//   - classroom tanpa structure aktif → zero-result, bukan error
//   - kegagalan per-batch            → diisolasi ke result.Errors, run lanjut
//
// Idempotent pada eksekusi non-concurrent: run ulang setelah konvergen
// menghasilkan created=0, updated=0.
func (e *SyncEngine) Sync(ctx context.Context, classroomID, actorID uuid.UUID, trigger syncModel.FeeSyncTrigger) (SyncResult, error) {
	res := SyncResult{ClassroomID: classroomID, Errors: []SyncError{}}

	// Structural precondition: classroom harus ada.
	var classroom classModel.ClassroomModel
	if err := e.DB.WithContext(ctx).
		First(&classroom, "classroom_id = ?", classroomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fiber.NewError(fiber.StatusNotFound, "classroom tidak ditemukan")
		}
		return res, err
	}

	catalog, err := e.Catalog.ActiveForClassroom(ctx, classroomID)
	if err != nil {
		return res, err
	}
	if len(catalog) == 0 {
		// No-op: tidak ada structure aktif, tidak perlu operation log.
		return res, nil
	}

	op, err := startOperation(ctx, e.DB, trigger, &classroomID, nil, actorID)
	if err != nil {
		return res, err
	}
	res.OperationID = op.FeeSyncOperationID

	var students []studentModel.StudentModel
	if err := e.DB.WithContext(ctx).
		Where("student_classroom_id = ?", classroomID).
		Where("student_is_active = ?", true).
		Find(&students).Error; err != nil {
		finishOperation(ctx, e.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}
	res.Students = len(students)

	inserts, updates, err := e.computeDelta(ctx, students, catalog, actorID)
	if err != nil {
		finishOperation(ctx, e.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}
	res.Attempted = len(inserts) + len(updates)

	e.flushInserts(ctx, inserts, &res)
	e.flushUpdates(ctx, updates, &res)

	finishOperation(ctx, e.DB, op, syncModel.FeeSyncStatusCompleted, res.summary(), res.Errors)
	log.Printf("[SYNC] classroom=%s created=%d updated=%d skipped=%d errors=%d",
		classroomID, res.Created, res.Updated, res.Skipped, len(res.Errors))
	return res, nil
}

func (r SyncResult) summary() map[string]any {
	return map[string]any{
		"synced_students": r.Students,
		"total_fees":      r.Attempted,
		"created":         r.Created,
		"updated":         r.Updated,
		"skipped":         r.Skipped,
		"errors":          len(r.Errors),
	}
}

// computeDelta membandingkan ledger yang ada dengan catalog:
//   - entry belum ada & siswa eligible → insert (guarded ON CONFLICT)
//   - amount beda & belum paid         → koreksi amount
//   - amount beda & sudah paid         → hanya jika RepricePaid
//   - pin_code kosong                  → backfill pin
//
// Eligibility sama dengan BackfillPass: admission_date <= term.end_date,
// siswa yang masuk setelah term berakhir tidak dibuatkan entry.
func (e *SyncEngine) computeDelta(
	ctx context.Context,
	students []studentModel.StudentModel,
	catalog []structureSvc.CatalogEntry,
	actorID uuid.UUID,
) ([]studentModel.StudentFeeModel, []pendingUpdate, error) {
	if len(students) == 0 {
		return nil, nil, nil
	}

	studentIDs := make([]uuid.UUID, 0, len(students))
	for _, s := range students {
		studentIDs = append(studentIDs, s.StudentID)
	}

	var existing []studentModel.StudentFeeModel
	if err := e.DB.WithContext(ctx).
		Where("student_fee_student_id IN ?", studentIDs).
		Find(&existing).Error; err != nil {
		return nil, nil, err
	}

	// index: student → identity key → entry (kalau ada duplikat, pakai yang
	// pertama — duplikat urusan DeduplicationPass)
	ledger := make(map[uuid.UUID]map[string]*studentModel.StudentFeeModel, len(students))
	for i := range existing {
		f := &existing[i]
		byKey, ok := ledger[f.StudentFeeStudentID]
		if !ok {
			byKey = make(map[string]*studentModel.StudentFeeModel)
			ledger[f.StudentFeeStudentID] = byKey
		}
		if _, dup := byKey[f.IdentityKey()]; !dup {
			byKey[f.IdentityKey()] = f
		}
	}

	var inserts []studentModel.StudentFeeModel
	var updates []pendingUpdate

	actor := actorID
	for _, s := range students {
		for _, entry := range catalog {
			key := studentModel.FeeIdentityKey(entry.TermName, entry.SessionName)
			current, ok := ledger[s.StudentID][key]
			if !ok {
				if s.StudentAdmissionDate.After(entry.TermEndDate) {
					continue // tidak eligible: masuk setelah term berakhir
				}
				inserts = append(inserts, studentModel.StudentFeeModel{
					StudentFeeStudentID:   s.StudentID,
					StudentFeeTermName:    entry.TermName,
					StudentFeeSessionName: entry.SessionName,
					StudentFeeAmountIDR:   entry.AmountIDR,
					StudentFeeIsPaid:      false,
					StudentFeePinCode:     helper.GeneratePinCode(),
					StudentFeeIsViewable:  false,
					StudentFeeUpdatedBy:   &actor,
				})
				continue
			}

			fields := map[string]any{}
			if current.StudentFeeAmountIDR != entry.AmountIDR {
				if !current.StudentFeeIsPaid || e.RepricePaid {
					fields["student_fee_amount_idr"] = entry.AmountIDR
				}
			}
			if current.StudentFeePinCode == "" {
				fields["student_fee_pin_code"] = helper.GeneratePinCode()
			}
			if len(fields) > 0 {
				fields["student_fee_updated_by"] = actor
				// map Updates melewati hook BeforeUpdate, jadi bump manual
				fields["student_fee_updated_at"] = time.Now()
				updates = append(updates, pendingUpdate{
					feeID:     current.StudentFeeID,
					studentID: s.StudentID,
					fields:    fields,
				})
			}
		}
	}
	return inserts, updates, nil
}

// flushInserts menulis insert dalam batch. Insert di-guard
// ON CONFLICT DO NOTHING (partial unique index di Postgres), jadi dua run
// yang balapan tidak menghasilkan duplikat — yang kalah dihitung skipped.
func (e *SyncEngine) flushInserts(ctx context.Context, inserts []studentModel.StudentFeeModel, res *SyncResult) {
	size := e.batchSize()
	for offset := 0; offset < len(inserts); offset += size {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, SyncError{BatchOffset: offset, Message: "canceled: " + err.Error()})
			return
		}
		end := offset + size
		if end > len(inserts) {
			end = len(inserts)
		}
		chunk := inserts[offset:end]

		tx := e.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&chunk)
		if tx.Error != nil {
			res.Errors = append(res.Errors, SyncError{BatchOffset: offset, Message: tx.Error.Error()})
			continue
		}
		res.Created += int(tx.RowsAffected)
		res.Skipped += len(chunk) - int(tx.RowsAffected)
	}
}

// flushUpdates menerapkan koreksi per entry. Kegagalan satu item tidak
// menghentikan sisanya.
func (e *SyncEngine) flushUpdates(ctx context.Context, updates []pendingUpdate, res *SyncResult) {
	size := e.batchSize()
	for i, u := range updates {
		if i%size == 0 {
			if err := ctx.Err(); err != nil {
				res.Errors = append(res.Errors, SyncError{BatchOffset: i, Message: "canceled: " + err.Error()})
				return
			}
		}
		err := e.DB.WithContext(ctx).
			Model(&studentModel.StudentFeeModel{}).
			Where("student_fee_id = ?", u.feeID).
			Updates(u.fields).Error
		if err != nil {
			res.Errors = append(res.Errors, SyncError{
				BatchOffset: (i / size) * size,
				StudentID:   u.studentID.String(),
				Message:     err.Error(),
			})
			continue
		}
		res.Updated++
	}
}

/* =======================================================
   COMPOSITE RUNS (sync-all, per-term, per-student)
======================================================= */

// AggregateSyncResult = rekap multi-classroom untuk sync-all / term sync.
type AggregateSyncResult struct {
	Classrooms int          `json:"classrooms"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Skipped    int          `json:"skipped"`
	Errors     int          `json:"errors"`
	Results    []SyncResult `json:"classroom_results"`
}

func (a *AggregateSyncResult) add(r SyncResult) {
	a.Classrooms++
	a.Created += r.Created
	a.Updated += r.Updated
	a.Skipped += r.Skipped
	a.Errors += len(r.Errors)
	a.Results = append(a.Results, r)
}

// SyncAll menjalankan sync untuk setiap classroom yang punya structure aktif.
func (e *SyncEngine) SyncAll(ctx context.Context, actorID uuid.UUID) (AggregateSyncResult, error) {
	agg := AggregateSyncResult{Results: []SyncResult{}}

	ids, err := e.Catalog.ClassroomIDsWithActiveStructures(ctx)
	if err != nil {
		return agg, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return agg, err
		}
		r, err := e.Sync(ctx, id, actorID, syncModel.FeeSyncTriggerSyncAll)
		if err != nil {
			// classroom hilang di tengah run (mis. dihapus) — catat, lanjut
			agg.Errors++
			agg.Results = append(agg.Results, SyncResult{
				ClassroomID: id,
				Errors:      []SyncError{{Message: err.Error()}},
			})
			continue
		}
		agg.add(r)
	}
	return agg, nil
}

// SyncTerm menjalankan sync untuk setiap classroom yang disentuh structure
// aktif milik satu term.
func (e *SyncEngine) SyncTerm(ctx context.Context, termID, actorID uuid.UUID) (AggregateSyncResult, error) {
	agg := AggregateSyncResult{Results: []SyncResult{}}

	ids, err := e.Catalog.ClassroomIDsForTerm(ctx, termID)
	if err != nil {
		return agg, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return agg, err
		}
		r, err := e.Sync(ctx, id, actorID, syncModel.FeeSyncTriggerTermActivation)
		if err != nil {
			agg.Errors++
			agg.Results = append(agg.Results, SyncResult{
				ClassroomID: id,
				Errors:      []SyncError{{Message: err.Error()}},
			})
			continue
		}
		agg.add(r)
	}
	return agg, nil
}

// SyncStudent menjalankan sync untuk classroom milik satu siswa.
func (e *SyncEngine) SyncStudent(ctx context.Context, studentID, actorID uuid.UUID) (SyncResult, error) {
	var student studentModel.StudentModel
	if err := e.DB.WithContext(ctx).
		First(&student, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SyncResult{}, fiber.NewError(fiber.StatusNotFound, "siswa tidak ditemukan")
		}
		return SyncResult{}, err
	}
	if student.StudentClassroomID == nil {
		return SyncResult{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("siswa %s belum punya classroom", student.StudentAdmissionNo))
	}
	return e.Sync(ctx, *student.StudentClassroomID, actorID, syncModel.FeeSyncTriggerStudent)
}
