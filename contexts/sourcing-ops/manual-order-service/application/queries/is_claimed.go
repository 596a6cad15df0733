package queries

import (
	"context"
	"strings"

	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type IsClaimedQuery struct {
	OrderID string
}

type IsClaimedResult struct {
	Claimed bool
}

type IsClaimedUseCase struct {
	Orders ports.OrderRepository
}

// Execute reports claimed OR completed: a finished order is just as
// unavailable to a rep as an actively worked one.
func (u IsClaimedUseCase) Execute(ctx context.Context, query IsClaimedQuery) (IsClaimedResult, error) {
	if strings.TrimSpace(query.OrderID) == "" {
		return IsClaimedResult{}, domainerrors.ErrOrderNotFound
	}
	order, err := u.Orders.FindByID(ctx, query.OrderID)
	if err != nil {
		return IsClaimedResult{}, err
	}
	return IsClaimedResult{Claimed: order.IsClaimed()}, nil
}
