// file: internals/features/finance/fee_sync/service/dedup_pass.go
package service

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// PassError = kegagalan terisolasi untuk satu siswa di dalam sebuah pass.
type PassError struct {
	StudentID string `json:"student_id,omitempty"`
	Message   string `json:"message"`
}

// DedupResult = hasil DeduplicationPass.
type DedupResult struct {
	OperationID       uuid.UUID   `json:"operation_id"`
	Processed         int         `json:"processed"`
	DuplicatesFound   int         `json:"duplicates_found"`
	DuplicatesRemoved int         `json:"duplicates_removed"`
	Errors            []PassError `json:"errors"`
}

// DedupPass menyapu ledger mencari entry yang bertabrakan di kunci
// (term, session) yang sama untuk satu siswa, lalu menyisakan tepat satu.
//
// Pemilihan survivor: paling baru disentuh (updated_at desc, fallback
// created_at desc, lalu id asc sebagai tiebreak deterministik). Penghapusan
// di-key PRIMARY KEY per entry — bukan match field term+session — supaya
// survivor tidak ikut terhapus walau semua entry di grup berbagi nilai kunci
// yang sama.
type DedupPass struct {
	DB *gorm.DB
}

func NewDedupPass(db *gorm.DB) *DedupPass {
	return &DedupPass{DB: db}
}

func (p *DedupPass) Run(ctx context.Context, actorID uuid.UUID) (DedupResult, error) {
	res := DedupResult{Errors: []PassError{}}

	op, err := startOperation(ctx, p.DB, syncModel.FeeSyncTriggerReconciliation, nil, nil, actorID)
	if err != nil {
		return res, err
	}
	res.OperationID = op.FeeSyncOperationID

	var fees []studentModel.StudentFeeModel
	if err := p.DB.WithContext(ctx).
		Order("student_fee_student_id").
		Find(&fees).Error; err != nil {
		finishOperation(ctx, p.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}

	// group per siswa per identity key
	byStudent := make(map[uuid.UUID]map[string][]studentModel.StudentFeeModel)
	for _, f := range fees {
		byKey, ok := byStudent[f.StudentFeeStudentID]
		if !ok {
			byKey = make(map[string][]studentModel.StudentFeeModel)
			byStudent[f.StudentFeeStudentID] = byKey
		}
		byKey[f.IdentityKey()] = append(byKey[f.IdentityKey()], f)
	}
	res.Processed = len(byStudent)

	for studentID, byKey := range byStudent {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, PassError{Message: "canceled: " + err.Error()})
			break
		}

		var toRemove []uuid.UUID
		for _, group := range byKey {
			if len(group) < 2 {
				continue
			}
			res.DuplicatesFound += len(group) - 1

			sort.Slice(group, func(i, j int) bool {
				a, b := group[i], group[j]
				if !a.StudentFeeUpdatedAt.Equal(b.StudentFeeUpdatedAt) {
					return a.StudentFeeUpdatedAt.After(b.StudentFeeUpdatedAt)
				}
				if !a.StudentFeeCreatedAt.Equal(b.StudentFeeCreatedAt) {
					return a.StudentFeeCreatedAt.After(b.StudentFeeCreatedAt)
				}
				return a.StudentFeeID.String() < b.StudentFeeID.String()
			})

			// group[0] = survivor; sisanya dibuang by PK
			for _, loser := range group[1:] {
				toRemove = append(toRemove, loser.StudentFeeID)
			}
		}
		if len(toRemove) == 0 {
			continue
		}

		tx := p.DB.WithContext(ctx).
			Where("student_fee_id IN ?", toRemove).
			Delete(&studentModel.StudentFeeModel{})
		if tx.Error != nil {
			res.Errors = append(res.Errors, PassError{
				StudentID: studentID.String(),
				Message:   tx.Error.Error(),
			})
			continue
		}
		res.DuplicatesRemoved += int(tx.RowsAffected)
	}

	finishOperation(ctx, p.DB, op, syncModel.FeeSyncStatusCompleted, map[string]any{
		"processed":          res.Processed,
		"duplicates_found":   res.DuplicatesFound,
		"duplicates_removed": res.DuplicatesRemoved,
		"errors":             len(res.Errors),
	}, res.Errors)

	log.Printf("[RECONCILE] dedup processed=%d found=%d removed=%d errors=%d",
		res.Processed, res.DuplicatesFound, res.DuplicatesRemoved, len(res.Errors))
	return res, nil
}
