// file: internals/features/finance/fee_sync/service/backfill_pass.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	syncModel "schoolku_backend/internals/features/finance/fee_sync/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

// BackfillResult = hasil BackfillPass.
type BackfillResult struct {
	OperationID      uuid.UUID   `json:"operation_id"`
	Processed        int         `json:"processed"`
	MissingFeesFound int         `json:"missing_fees_found"`
	FeesBackfilled   int         `json:"fees_backfilled"`
	Errors           []PassError `json:"errors"`
}

// BackfillPass mencari entry ledger yang seharusnya ada (siswa terdaftar dan
// eligible) tapi hilang, lalu membuatnya dengan default yang sama seperti
// insert path SyncEngine. Pass ini yang mengoreksi drift akibat race antar
// sync atau siswa pindah classroom setelah sync jalan.
//
// Eligibility: student.admission_date <= term.end_date — siswa yang masuk
// setelah sebuah term berakhir tidak pernah ditagih untuk term itu.
type BackfillPass struct {
	DB      *gorm.DB
	Catalog *structureSvc.Catalog
}

func NewBackfillPass(db *gorm.DB, catalog *structureSvc.Catalog) *BackfillPass {
	return &BackfillPass{DB: db, Catalog: catalog}
}

func (p *BackfillPass) Run(ctx context.Context, actorID uuid.UUID) (BackfillResult, error) {
	res := BackfillResult{Errors: []PassError{}}

	op, err := startOperation(ctx, p.DB, syncModel.FeeSyncTriggerReconciliation, nil, nil, actorID)
	if err != nil {
		return res, err
	}
	res.OperationID = op.FeeSyncOperationID

	catalogByClassroom, err := p.Catalog.ActiveAll(ctx)
	if err != nil {
		finishOperation(ctx, p.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}

	var students []studentModel.StudentModel
	if err := p.DB.WithContext(ctx).
		Where("student_is_active = ?", true).
		Where("student_classroom_id IS NOT NULL").
		Find(&students).Error; err != nil {
		finishOperation(ctx, p.DB, op, syncModel.FeeSyncStatusFailed, nil, nil)
		return res, err
	}

	for _, s := range students {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, PassError{Message: "canceled: " + err.Error()})
			break
		}

		entries := catalogByClassroom[*s.StudentClassroomID]
		if len(entries) == 0 {
			continue
		}
		res.Processed++

		var existing []studentModel.StudentFeeModel
		if err := p.DB.WithContext(ctx).
			Where("student_fee_student_id = ?", s.StudentID).
			Find(&existing).Error; err != nil {
			res.Errors = append(res.Errors, PassError{StudentID: s.StudentID.String(), Message: err.Error()})
			continue
		}
		have := make(map[string]struct{}, len(existing))
		for _, f := range existing {
			have[f.IdentityKey()] = struct{}{}
		}

		actor := actorID
		var missing []studentModel.StudentFeeModel
		for _, entry := range entries {
			if s.StudentAdmissionDate.After(entry.TermEndDate) {
				continue // tidak eligible: masuk setelah term berakhir
			}
			key := studentModel.FeeIdentityKey(entry.TermName, entry.SessionName)
			if _, ok := have[key]; ok {
				continue
			}
			missing = append(missing, studentModel.StudentFeeModel{
				StudentFeeStudentID:   s.StudentID,
				StudentFeeTermName:    entry.TermName,
				StudentFeeSessionName: entry.SessionName,
				StudentFeeAmountIDR:   entry.AmountIDR,
				StudentFeeIsPaid:      false,
				StudentFeePinCode:     helper.GeneratePinCode(),
				StudentFeeIsViewable:  false,
				StudentFeeUpdatedBy:   &actor,
			})
		}
		if len(missing) == 0 {
			continue
		}
		res.MissingFeesFound += len(missing)

		tx := p.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&missing)
		if tx.Error != nil {
			res.Errors = append(res.Errors, PassError{StudentID: s.StudentID.String(), Message: tx.Error.Error()})
			continue
		}
		res.FeesBackfilled += int(tx.RowsAffected)
	}

	finishOperation(ctx, p.DB, op, syncModel.FeeSyncStatusCompleted, map[string]any{
		"processed":          res.Processed,
		"missing_fees_found": res.MissingFeesFound,
		"fees_backfilled":    res.FeesBackfilled,
		"errors":             len(res.Errors),
	}, res.Errors)

	log.Printf("[RECONCILE] backfill processed=%d missing=%d created=%d errors=%d",
		res.Processed, res.MissingFeesFound, res.FeesBackfilled, len(res.Errors))
	return res, nil
}
