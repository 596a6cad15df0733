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

const claimedEventType = "sourcing.order_claimed"

type ClaimOrderCommand struct {
	OrderID string
}

type ClaimOrderResult struct {
	Order entities.ManualOrder
}

type ClaimOrderUseCase struct {
	Orders      ports.OrderRepository
	Guard       ports.ClaimGuard
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute loads the order, flips it to claimed, and persists the full record
// together with the outbox event. The claim is an unconditional overwrite of
// the claim fields; the guard only observes double-claims, it never rejects.
func (u ClaimOrderUseCase) Execute(ctx context.Context, cmd ClaimOrderCommand) (ClaimOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OrderID) == "" {
		return ClaimOrderResult{}, domainerrors.ErrOrderNotFound
	}

	order, err := u.Orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return ClaimOrderResult{}, err
	}

	now := u.now()
	if u.Guard != nil {
		acquired, guardErr := u.Guard.Acquire(ctx, order.ID)
		if guardErr != nil {
			logger.Warn("claim guard unavailable",
				"event", "claim_order_guard_unavailable",
				"module", "sourcing-ops/manual-order-service",
				"layer", "application",
				"order_id", order.ID,
				"error", guardErr.Error(),
			)
		} else if !acquired {
			logger.Warn("order claimed while already marked claimed",
				"event", "claim_order_double_claim",
				"module", "sourcing-ops/manual-order-service",
				"layer", "application",
				"order_id", order.ID,
			)
		}
	}

	order.Claim(now)

	saved, err := u.Orders.SaveWithEvent(ctx, order, ports.LifecycleEvent{
		EventID:    u.IDGenerator.NewID(),
		EventType:  claimedEventType,
		OrderID:    order.ID,
		OccurredAt: now,
	})
	if err != nil {
		logger.Error("claim order save failed",
			"event", "claim_order_save_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "application",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return ClaimOrderResult{}, err
	}

	logger.Info("order claimed",
		"event", "claim_order_completed",
		"module", "sourcing-ops/manual-order-service",
		"layer", "application",
		"order_id", saved.ID,
	)
	return ClaimOrderResult{Order: saved}, nil
}

func (u ClaimOrderUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
