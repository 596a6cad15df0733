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

const completedEventType = "sourcing.order_completed"

type CompleteOrderCommand struct {
	OrderID string
}

type CompleteOrderResult struct {
	Order entities.ManualOrder
}

type CompleteOrderUseCase struct {
	Orders      ports.OrderRepository
	Guard       ports.ClaimGuard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute marks the order terminal. Idempotent: completing a completed order
// keeps the original completion timestamp. timeClaimed stays as-is.
func (u CompleteOrderUseCase) Execute(ctx context.Context, cmd CompleteOrderCommand) (CompleteOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OrderID) == "" {
		return CompleteOrderResult{}, domainerrors.ErrOrderNotFound
	}

	order, err := u.Orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return CompleteOrderResult{}, err
	}

	order.Complete(u.now())

	saved, err := u.Orders.SaveWithEvent(ctx, order, ports.LifecycleEvent{
		EventID:    u.IDGenerator.NewID(),
		EventType:  completedEventType,
		OrderID:    order.ID,
		OccurredAt: u.now(),
	})
	if err != nil {
		logger.Error("complete order save failed",
			"event", "complete_order_save_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "application",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return CompleteOrderResult{}, err
	}

	if u.Guard != nil {
		if guardErr := u.Guard.Clear(ctx, order.ID); guardErr != nil {
			logger.Warn("claim guard clear failed",
				"event", "complete_order_guard_clear_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "application",
				"order_id", order.ID,
				"error", guardErr.Error(),
			)
		}
	}

	logger.Info("order completed",
		"event", "complete_order_completed",
		"module", "sourcing-ops/manual-order-service",
		"layer", "application",
		"order_id", saved.ID,
	)
	return CompleteOrderResult{Order: saved}, nil
}

func (u CompleteOrderUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
