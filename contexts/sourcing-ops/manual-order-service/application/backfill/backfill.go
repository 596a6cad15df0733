package backfill

import (
	"context"
	"fmt"
	"log/slog"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

// Metrics counts repair outcomes. Implementations live at the platform layer.
type Metrics interface {
	OrderRepaired()
	MissingSourceLine()
}

// Service repairs missing per-line pricing and shipping fields on a manual
// order from its companion source order. It runs lazily on every read of the
// pending list: until the source order shows up, the same order keeps being
// re-checked and returned unchanged.
type Service struct {
	Orders  ports.OrderRepository
	Sources ports.SourceOrderRepository
	Alerts  ports.Alerter
	Metrics Metrics
	Logger  *slog.Logger
}

// EnsurePricing samples the first line of the first sourcing group; pricing
// is written atomically across all lines upstream, so one empty sample means
// the whole order needs backfill. Data problems are never fatal to the batch:
// a malformed order or an unmatched line is logged and the order is returned
// with whatever pricing it has. A successful repair is persisted before the
// order is returned, so a second run is a no-op.
func (s Service) EnsurePricing(ctx context.Context, order entities.ManualOrder) (entities.ManualOrder, error) {
	logger := application.ResolveLogger(s.Logger)

	needsUpdate, err := order.NeedsBackfill()
	if err != nil {
		logger.Warn("manual order has no sourcing lines",
			"event", "backfill_invalid_order_shape",
			"module", "sourcing-ops/manual-order-service",
			"layer", "application",
			"order_id", order.ID,
		)
		s.alert(ctx, "Manual order missing sourcing lines",
			fmt.Sprintf("Manual order %s has an empty sourcing section and cannot be price-checked.", order.ID))
		return order, nil
	}
	if !needsUpdate {
		return order, nil
	}

	source, found, err := s.Sources.GetSourceOrder(ctx, order.ID)
	if err != nil {
		return entities.ManualOrder{}, err
	}
	if !found {
		// Source order not replicated yet; the next list read retries.
		return order, nil
	}

	missing := 0
	for gi := range order.Sourcing {
		for li := range order.Sourcing[gi].Items {
			item := &order.Sourcing[gi].Items[li]
			line, ok := source.LineByID(item.LineItemID)
			if !ok {
				missing++
				if s.Metrics != nil {
					s.Metrics.MissingSourceLine()
				}
				logger.Warn("manual order line missing from source order",
					"event", "backfill_missing_source_line",
					"module", "sourcing-ops/manual-order-service",
					"layer", "application",
					"order_id", order.ID,
					"line_item_id", item.LineItemID,
				)
				continue
			}
			item.UnitPrice = line.UnitPrice
			item.ExtendedPrice = line.ExtendedPrice
			item.PreferredShipVia = line.PreferredShipVia
		}
	}
	if missing > 0 {
		s.alert(ctx, "Manual order backfill skipped lines",
			fmt.Sprintf("Order %s: %d line(s) had no match in the source order.", order.ID, missing))
	}

	saved, err := s.Orders.Save(ctx, order)
	if err != nil {
		return entities.ManualOrder{}, err
	}
	if s.Metrics != nil {
		s.Metrics.OrderRepaired()
	}
	logger.Info("manual order pricing backfilled",
		"event", "backfill_completed",
		"module", "sourcing-ops/manual-order-service",
		"layer", "application",
		"order_id", saved.ID,
	)
	return saved, nil
}

func (s Service) alert(ctx context.Context, title, body string) {
	if s.Alerts != nil {
		s.Alerts.Notify(ctx, title, body, "warning")
	}
}
