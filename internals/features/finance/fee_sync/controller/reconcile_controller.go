// file: internals/features/finance/fee_sync/controller/reconcile_controller.go
package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditSvc "schoolku_backend/internals/features/finance/audit_logs/service"
	syncService "schoolku_backend/internals/features/finance/fee_sync/service"
	helper "schoolku_backend/internals/helpers"
)

type ReconcileController struct {
	DB         *gorm.DB
	Dedup      *syncService.DedupPass
	Backfill   *syncService.BackfillPass
	Reconciler *syncService.Reconciler
	Health     *syncService.HealthChecker
}

func NewReconcileController(
	db *gorm.DB,
	dedup *syncService.DedupPass,
	backfill *syncService.BackfillPass,
	reconciler *syncService.Reconciler,
	health *syncService.HealthChecker,
) *ReconcileController {
	return &ReconcileController{
		DB:         db,
		Dedup:      dedup,
		Backfill:   backfill,
		Reconciler: reconciler,
		Health:     health,
	}
}

/* ======================= DEDUPLICATE ======================= */
// POST /api/a/fees/reconcile/deduplicate
func (h *ReconcileController) Deduplicate(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	res, err := h.Dedup.Run(c.UserContext(), actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_reconcile.deduplicate",
		fmt.Sprintf("dedup pass: found=%d removed=%d errors=%d",
			res.DuplicatesFound, res.DuplicatesRemoved, len(res.Errors)))

	return helper.JsonOK(c, "deduplication selesai", res)
}

/* ======================= BACKFILL ======================= */
// POST /api/a/fees/reconcile/backfill
func (h *ReconcileController) BackfillMissing(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	res, err := h.Backfill.Run(c.UserContext(), actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_reconcile.backfill",
		fmt.Sprintf("backfill pass: missing=%d backfilled=%d errors=%d",
			res.MissingFeesFound, res.FeesBackfilled, len(res.Errors)))

	return helper.JsonOK(c, "backfill selesai", res)
}

/* ======================= FULL RECONCILIATION ======================= */
// POST /api/a/fees/reconcile/full — dedup dulu, baru backfill.
func (h *ReconcileController) FullReconciliation(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	res, err := h.Reconciler.FullReconciliation(c.UserContext(), actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	auditSvc.Record(c.UserContext(), h.DB, actorID, "fee_reconcile.full",
		fmt.Sprintf("full reconciliation: removed=%d backfilled=%d errors=%d",
			res.Deduplication.DuplicatesRemoved, res.Backfill.FeesBackfilled, res.TotalErrors))

	return helper.JsonOK(c, "full reconciliation selesai", res)
}

/* ======================= HEALTH CHECK ======================= */
// GET /api/a/fees/health-check — read only, tidak memutasi ledger.
func (h *ReconcileController) HealthCheck(c *fiber.Ctx) error {
	report, err := h.Health.HealthCheck(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", report)
}
