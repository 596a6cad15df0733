package queries

import (
	"context"
	"strings"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type GetOrderQuery struct {
	OrderID string
}

type GetOrderResult struct {
	Order entities.ManualOrder
}

type GetOrderUseCase struct {
	Orders ports.OrderRepository
}

func (u GetOrderUseCase) Execute(ctx context.Context, query GetOrderQuery) (GetOrderResult, error) {
	if strings.TrimSpace(query.OrderID) == "" {
		return GetOrderResult{}, domainerrors.ErrOrderNotFound
	}
	order, err := u.Orders.FindByID(ctx, query.OrderID)
	if err != nil {
		return GetOrderResult{}, err
	}
	return GetOrderResult{Order: order}, nil
}
