package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

const releasedEventType = "sourcing.order_released"

type ReleaseOrderCommand struct {
	OrderID string
}

type ReleaseOrderResult struct {
	Order entities.ManualOrder
}

type ReleaseOrderUseCase struct {
	Orders      ports.OrderRepository
	Guard       ports.ClaimGuard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute clears the claim and its timestamp. Releasing an unclaimed order
// is a no-op on the claim fields and still succeeds.
func (u ReleaseOrderUseCase) Execute(ctx context.Context, cmd ReleaseOrderCommand) (ReleaseOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OrderID) == "" {
		return ReleaseOrderResult{}, domainerrors.ErrOrderNotFound
	}

	order, err := u.Orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return ReleaseOrderResult{}, err
	}

	order.Release()

	saved, err := u.Orders.SaveWithEvent(ctx, order, ports.LifecycleEvent{
		EventID:    u.IDGenerator.NewID(),
		EventType:  releasedEventType,
		OrderID:    order.ID,
		OccurredAt: u.now(),
	})
	if err != nil {
		logger.Error("release order save failed",
			"event", "release_order_save_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "application",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return ReleaseOrderResult{}, err
	}

	if u.Guard != nil {
		if guardErr := u.Guard.Clear(ctx, order.ID); guardErr != nil {
			logger.Warn("claim guard clear failed",
				"event", "release_order_guard_clear_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "application",
				"order_id", order.ID,
				"error", guardErr.Error(),
			)
		}
	}

	logger.Info("order released",
		"event", "release_order_completed",
		"module", "sourcing-ops/manual-order-service",
		"layer", "application",
		"order_id", saved.ID,
	)
	return ReleaseOrderResult{Order: saved}, nil
}

func (u ReleaseOrderUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
