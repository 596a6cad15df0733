package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type UpdateNoteCommand struct {
	OrderID string
	Note    string
}

type UpdateNoteResult struct {
	Order entities.ManualOrder
}

type UpdateNoteUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

// Execute replaces the rep-editable note. Pure field update, no outbox event.
func (u UpdateNoteUseCase) Execute(ctx context.Context, cmd UpdateNoteCommand) (UpdateNoteResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OrderID) == "" {
		return UpdateNoteResult{}, domainerrors.ErrOrderNotFound
	}

	order, err := u.Orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return UpdateNoteResult{}, err
	}

	if err := order.SetNote(cmd.Note); err != nil {
		return UpdateNoteResult{}, err
	}

	saved, err := u.Orders.Save(ctx, order)
	if err != nil {
		logger.Error("note update save failed",
			"event", "update_note_save_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "application",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return UpdateNoteResult{}, err
	}

	return UpdateNoteResult{Order: saved}, nil
}
