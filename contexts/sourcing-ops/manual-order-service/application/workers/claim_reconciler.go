package workers

import (
	"context"
	"fmt"
	"log/slog"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

// ClaimReconciler force-releases orders left claimed but incomplete, the
// sole recovery path for a claim a rep walked away from. It runs nightly on
// business days against the same store the live API uses.
type ClaimReconciler struct {
	Orders ports.OrderRepository
	Alerts ports.Alerter
	Logger *slog.Logger
}

// RunOnce sweeps claimed-incomplete orders and clears the claimed flag,
// leaving timeClaimed untouched (force-release, not a rep release). Orders
// are saved independently with one retry each; a failed order is skipped and
// alerted, never aborting the sweep. The returned count covers accepted
// writes only.
func (r ClaimReconciler) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)

	stale, err := r.Orders.ListClaimedIncomplete(ctx)
	if err != nil {
		logger.Error("reconciliation scan failed",
			"event", "claim_reconcile_scan_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(stale) == 0 {
		logger.Info("no claimed incomplete orders found",
			"event", "claim_reconcile_empty",
			"module", "sourcing-ops/manual-order-service",
			"layer", "worker",
		)
		return 0, nil
	}

	released := 0
	failed := 0
	for _, order := range stale {
		if err := r.releaseOne(ctx, order.ID); err != nil {
			failed++
			logger.Error("stale claim release failed",
				"event", "claim_reconcile_release_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "worker",
				"order_id", order.ID,
				"error", err.Error(),
			)
			continue
		}
		released++
	}

	if failed > 0 && r.Alerts != nil {
		r.Alerts.Notify(ctx, "Claim reconciliation incomplete",
			fmt.Sprintf("Released %d stale claim(s); %d order(s) could not be saved.", released, failed),
			"error")
	}

	logger.Info("claim reconciliation completed",
		"event", "claim_reconcile_completed",
		"module", "sourcing-ops/manual-order-service",
		"layer", "worker",
		"released_count", released,
		"failed_count", failed,
	)
	return released, nil
}

// releaseOne re-reads the order on each attempt so a version token bumped by
// a live request does not wedge the sweep.
func (r ClaimReconciler) releaseOne(ctx context.Context, orderID string) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		order, err := r.Orders.FindByID(ctx, orderID)
		if err != nil {
			lastErr = err
			continue
		}
		if order.OrderComplete || !order.Claimed {
			// Completed or already released since the scan; leave it alone.
			return nil
		}
		order.ForceRelease()
		if _, err := r.Orders.Save(ctx, order); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
