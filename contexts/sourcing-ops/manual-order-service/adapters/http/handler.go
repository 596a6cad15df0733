package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/commands"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/queries"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	httptransport "sourcingdash/contexts/sourcing-ops/manual-order-service/transport/http"
)

type Handler struct {
	ListPending queries.ListPendingUseCase
	GetOrder    queries.GetOrderUseCase
	IsClaimed   queries.IsClaimedUseCase
	Claim       commands.ClaimOrderUseCase
	Release     commands.ReleaseOrderUseCase
	Complete    commands.CompleteOrderUseCase
	UpdateNote  commands.UpdateNoteUseCase
	Logger      *slog.Logger
}

// ListManualOrdersHandler godoc
// @Summary List pending manual orders
// @Description Returns unclaimed, incomplete manual orders with pricing backfilled, oldest first.
// @Tags manual-orders
// @Produce json
// @Success 200 {array} httptransport.ManualOrderDTO
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /manual-orders [get]
func (h Handler) ListManualOrdersHandler(ctx context.Context) ([]httptransport.ManualOrderDTO, error) {
	result, err := h.ListPending.Execute(ctx, queries.ListPendingQuery{})
	if err != nil {
		return nil, err
	}
	return mapOrders(result.Orders), nil
}

// GetManualOrderHandler godoc
// @Summary Get one manual order
// @Tags manual-orders
// @Produce json
// @Param id path string true "Manual order id"
// @Success 200 {object} httptransport.ManualOrderDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /manual-orders/{id} [get]
func (h Handler) GetManualOrderHandler(ctx context.Context, orderID string) (httptransport.ManualOrderDTO, error) {
	result, err := h.GetOrder.Execute(ctx, queries.GetOrderQuery{OrderID: orderID})
	if err != nil {
		return httptransport.ManualOrderDTO{}, err
	}
	return mapOrder(result.Order), nil
}

// ClaimOrderHandler godoc
// @Summary Claim a manual order for working
// @Tags manual-orders
// @Produce json
// @Param id path string true "Manual order id"
// @Success 200 {object} httptransport.ManualOrderDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /order/claim/{id} [post]
func (h Handler) ClaimOrderHandler(ctx context.Context, orderID string) (httptransport.ManualOrderDTO, error) {
	result, err := h.Claim.Execute(ctx, commands.ClaimOrderCommand{OrderID: orderID})
	if err != nil {
		return httptransport.ManualOrderDTO{}, err
	}
	return mapOrder(result.Order), nil
}

// ReleaseOrderHandler godoc
// @Summary Release a claimed manual order
// @Tags manual-orders
// @Produce json
// @Param id path string true "Manual order id"
// @Success 200 {object} httptransport.ManualOrderDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /order/release/{id} [post]
func (h Handler) ReleaseOrderHandler(ctx context.Context, orderID string) (httptransport.ManualOrderDTO, error) {
	result, err := h.Release.Execute(ctx, commands.ReleaseOrderCommand{OrderID: orderID})
	if err != nil {
		return httptransport.ManualOrderDTO{}, err
	}
	return mapOrder(result.Order), nil
}

// CompleteOrderHandler godoc
// @Summary Mark a manual order complete
// @Tags manual-orders
// @Produce json
// @Param id path string true "Manual order id"
// @Success 200 {object} httptransport.ManualOrderDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /order/complete/{id} [post]
func (h Handler) CompleteOrderHandler(ctx context.Context, orderID string) (httptransport.ManualOrderDTO, error) {
	result, err := h.Complete.Execute(ctx, commands.CompleteOrderCommand{OrderID: orderID})
	if err != nil {
		return httptransport.ManualOrderDTO{}, err
	}
	return mapOrder(result.Order), nil
}

// IsOrderClaimedHandler godoc
// @Summary Check whether an order is claimed or completed
// @Tags manual-orders
// @Produce json
// @Param id path string true "Manual order id"
// @Success 200 {boolean} boolean
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /order/is-claimed/{id} [get]
func (h Handler) IsOrderClaimedHandler(ctx context.Context, orderID string) (bool, error) {
	result, err := h.IsClaimed.Execute(ctx, queries.IsClaimedQuery{OrderID: orderID})
	if err != nil {
		return false, err
	}
	return result.Claimed, nil
}

// UpdateNoteHandler godoc
// @Summary Update the rep note on a manual order
// @Tags manual-orders
// @Accept json
// @Produce json
// @Param id path string true "Manual order id"
// @Param request body httptransport.UpdateNoteRequest true "Order note"
// @Success 200 {object} httptransport.ManualOrderDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /order/{id}/note [put]
func (h Handler) UpdateNoteHandler(ctx context.Context, orderID string, req httptransport.UpdateNoteRequest) (httptransport.ManualOrderDTO, error) {
	result, err := h.UpdateNote.Execute(ctx, commands.UpdateNoteCommand{OrderID: orderID, Note: req.Note})
	if err != nil {
		return httptransport.ManualOrderDTO{}, err
	}
	return mapOrder(result.Order), nil
}

func mapOrders(orders []entities.ManualOrder) []httptransport.ManualOrderDTO {
	items := make([]httptransport.ManualOrderDTO, 0, len(orders))
	for _, order := range orders {
		items = append(items, mapOrder(order))
	}
	return items
}

func mapOrder(order entities.ManualOrder) httptransport.ManualOrderDTO {
	sourcing := make([]httptransport.SourceGroupDTO, 0, len(order.Sourcing))
	for _, group := range order.Sourcing {
		items := make([]httptransport.LineItemDTO, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, httptransport.LineItemDTO{
				LineItemID:       item.LineItemID,
				Description:      item.Description,
				Quantity:         item.Quantity,
				UnitPrice:        item.UnitPrice,
				ExtendedPrice:    item.ExtendedPrice,
				PreferredShipVia: item.PreferredShipVia,
				Alt1Code:         item.Alt1Code,
			})
		}
		sourcing = append(sourcing, httptransport.SourceGroupDTO{ShipFrom: group.ShipFrom, Items: items})
	}
	return httptransport.ManualOrderDTO{
		ID:              order.ID,
		Claimed:         order.Claimed,
		OrderComplete:   order.OrderComplete,
		TimeClaimed:     formatTime(order.TimeClaimed),
		TimeCompleted:   formatTime(order.TimeCompleted),
		Notes:           order.Notes,
		OrderSubmitDate: order.OrderSubmitDate.UTC().Format(time.RFC3339),
		Sourcing:        sourcing,
	}
}

func formatTime(ts *time.Time) *string {
	if ts == nil {
		return nil
	}
	formatted := ts.UTC().Format(time.RFC3339)
	return &formatted
}
