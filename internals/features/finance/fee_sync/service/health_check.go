// file: internals/features/finance/fee_sync/service/health_check.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	structureSvc "schoolku_backend/internals/features/finance/fee_structures/service"
	classModel "schoolku_backend/internals/features/school/classrooms/model"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

const (
	HealthStatusHealthy = "healthy"
	HealthStatusWarning = "warning"
)

type MissingFee struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	ClassroomID uuid.UUID `json:"classroom_id"`
	TermName    string    `json:"term_name"`
	SessionName string    `json:"session_name"`
	AmountIDR   int       `json:"amount_idr"`
}

type ExtraFee struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	FeeID       uuid.UUID `json:"fee_id"`
	TermName    string    `json:"term_name"`
	SessionName string    `json:"session_name"`
	AmountIDR   int       `json:"amount_idr"`
	IsPaid      bool      `json:"is_paid"`
}

type ClassroomStat struct {
	ClassroomID         uuid.UUID `json:"classroom_id"`
	ClassroomName       string    `json:"classroom_name"`
	Students            int       `json:"students"`
	StudentsWithMissing int       `json:"students_with_missing"`
	StudentsWithExtra   int       `json:"students_with_extra"`
	MissingFees         int       `json:"missing_fees"`
	ExtraFees           int       `json:"extra_fees"`
}

type HealthSummary struct {
	Status        string `json:"status"`
	TotalStudents int    `json:"total_students"`
	TotalMissing  int    `json:"total_missing"`
	TotalExtra    int    `json:"total_extra"`
}

type HealthDetails struct {
	MissingFees    []MissingFee    `json:"missing_fees"`
	ExtraFees      []ExtraFee      `json:"extra_fees"`
	ClassroomStats []ClassroomStat `json:"classroom_stats"`
}

type HealthReport struct {
	Summary HealthSummary `json:"summary"`
	Details HealthDetails `json:"details"`
}

// HealthChecker menghasilkan laporan discrepancy tanpa memutasi apa pun:
//
//   - missing fees: pasangan (siswa eligible, structure aktif) tanpa entry —
//     aturan eligibility sama persis dengan BackfillPass
//   - extra fees: entry yang kuncinya (term, session) tidak punya structure
//     aktif di classroom siswa (muncul saat structure dinonaktifkan/dihapus
//     setelah entry dibuat, atau karena drift data term)
//
// Read failure mana pun fatal — tidak ada laporan parsial.
type HealthChecker struct {
	DB      *gorm.DB
	Catalog *structureSvc.Catalog
}

func NewHealthChecker(db *gorm.DB, catalog *structureSvc.Catalog) *HealthChecker {
	return &HealthChecker{DB: db, Catalog: catalog}
}

func (h *HealthChecker) HealthCheck(ctx context.Context) (HealthReport, error) {
	report := HealthReport{
		Details: HealthDetails{
			MissingFees:    []MissingFee{},
			ExtraFees:      []ExtraFee{},
			ClassroomStats: []ClassroomStat{},
		},
	}

	catalogByClassroom, err := h.Catalog.ActiveAll(ctx)
	if err != nil {
		return report, err
	}

	var classrooms []classModel.ClassroomModel
	if err := h.DB.WithContext(ctx).Find(&classrooms).Error; err != nil {
		return report, err
	}
	classroomName := make(map[uuid.UUID]string, len(classrooms))
	for _, c := range classrooms {
		classroomName[c.ClassroomID] = c.ClassroomName
	}

	var students []studentModel.StudentModel
	if err := h.DB.WithContext(ctx).
		Where("student_is_active = ?", true).
		Where("student_classroom_id IS NOT NULL").
		Find(&students).Error; err != nil {
		return report, err
	}
	report.Summary.TotalStudents = len(students)

	stats := make(map[uuid.UUID]*ClassroomStat)
	statFor := func(classroomID uuid.UUID) *ClassroomStat {
		st, ok := stats[classroomID]
		if !ok {
			st = &ClassroomStat{
				ClassroomID:   classroomID,
				ClassroomName: classroomName[classroomID],
			}
			stats[classroomID] = st
		}
		return st
	}

	for _, s := range students {
		classroomID := *s.StudentClassroomID
		st := statFor(classroomID)
		st.Students++

		entries := catalogByClassroom[classroomID]
		activeKeys := make(map[string]struct{}, len(entries))

		var fees []studentModel.StudentFeeModel
		if err := h.DB.WithContext(ctx).
			Where("student_fee_student_id = ?", s.StudentID).
			Find(&fees).Error; err != nil {
			return report, err
		}
		have := make(map[string]struct{}, len(fees))
		for _, f := range fees {
			have[f.IdentityKey()] = struct{}{}
		}

		missingBefore := len(report.Details.MissingFees)
		for _, entry := range entries {
			key := studentModel.FeeIdentityKey(entry.TermName, entry.SessionName)
			activeKeys[key] = struct{}{}
			if s.StudentAdmissionDate.After(entry.TermEndDate) {
				continue // di luar eligibility window
			}
			if _, ok := have[key]; !ok {
				report.Details.MissingFees = append(report.Details.MissingFees, MissingFee{
					StudentID:   s.StudentID,
					StudentName: s.StudentFullName,
					ClassroomID: classroomID,
					TermName:    entry.TermName,
					SessionName: entry.SessionName,
					AmountIDR:   entry.AmountIDR,
				})
			}
		}

		extraBefore := len(report.Details.ExtraFees)
		for _, f := range fees {
			if _, ok := activeKeys[f.IdentityKey()]; ok {
				continue
			}
			report.Details.ExtraFees = append(report.Details.ExtraFees, ExtraFee{
				StudentID:   s.StudentID,
				StudentName: s.StudentFullName,
				FeeID:       f.StudentFeeID,
				TermName:    f.StudentFeeTermName,
				SessionName: f.StudentFeeSessionName,
				AmountIDR:   f.StudentFeeAmountIDR,
				IsPaid:      f.StudentFeeIsPaid,
			})
		}

		missing := len(report.Details.MissingFees) - missingBefore
		extra := len(report.Details.ExtraFees) - extraBefore
		if missing > 0 {
			st.StudentsWithMissing++
			st.MissingFees += missing
		}
		if extra > 0 {
			st.StudentsWithExtra++
			st.ExtraFees += extra
		}
	}

	for _, st := range stats {
		report.Details.ClassroomStats = append(report.Details.ClassroomStats, *st)
	}

	report.Summary.TotalMissing = len(report.Details.MissingFees)
	report.Summary.TotalExtra = len(report.Details.ExtraFees)
	if report.Summary.TotalMissing+report.Summary.TotalExtra == 0 {
		report.Summary.Status = HealthStatusHealthy
	} else {
		report.Summary.Status = HealthStatusWarning
	}
	return report, nil
}
