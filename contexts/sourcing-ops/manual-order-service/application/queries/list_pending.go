package queries

import (
	"context"
	"log/slog"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/backfill"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type ListPendingQuery struct{}

type ListPendingResult struct {
	Orders []entities.ManualOrder
}

// ListPendingUseCase returns the unclaimed, incomplete orders a rep can pick
// up, each run through the pricing backfill first. MaxOrders > 0 caps the
// list to that many most-recent orders (debug-build behavior).
type ListPendingUseCase struct {
	Orders    ports.OrderRepository
	Backfill  backfill.Service
	MaxOrders int
	Logger    *slog.Logger
}

func (u ListPendingUseCase) Execute(ctx context.Context, _ ListPendingQuery) (ListPendingResult, error) {
	logger := application.ResolveLogger(u.Logger)

	pending, err := u.Orders.ListPending(ctx)
	if err != nil {
		return ListPendingResult{}, err
	}

	if u.MaxOrders > 0 && len(pending) > u.MaxOrders {
		// The scan is ascending by submit date; keep the most recent tail.
		pending = pending[len(pending)-u.MaxOrders:]
	}

	orders := make([]entities.ManualOrder, 0, len(pending))
	for _, order := range pending {
		repaired, err := u.Backfill.EnsurePricing(ctx, order)
		if err != nil {
			logger.Error("pending list backfill failed",
				"event", "list_pending_backfill_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "application",
				"order_id", order.ID,
				"error", err.Error(),
			)
			return ListPendingResult{}, err
		}
		orders = append(orders, repaired)
	}

	return ListPendingResult{Orders: orders}, nil
}
