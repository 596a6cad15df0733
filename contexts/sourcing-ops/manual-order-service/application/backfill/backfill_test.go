package backfill_test

import (
	"context"
	"testing"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/memory"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/backfill"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
)

type recordingAlerter struct {
	titles []string
}

func (a *recordingAlerter) Notify(_ context.Context, title string, _ string, _ string) {
	a.titles = append(a.titles, title)
}

type countingMetrics struct {
	repaired int
	missing  int
}

func (m *countingMetrics) OrderRepaired()     { m.repaired++ }
func (m *countingMetrics) MissingSourceLine() { m.missing++ }

func unpricedOrder(id string) entities.ManualOrder {
	return entities.ManualOrder{
		ID:              id,
		OrderSubmitDate: time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC),
		Sourcing: []entities.SourceGroup{{
			ShipFrom: "branch-91",
			Items: []entities.LineItem{
				{LineItemID: "10", Description: "3/4in copper elbow", Quantity: 12},
				{LineItemID: "20", Description: "ball valve", Quantity: 2},
			},
		}},
	}
}

func TestEnsurePricingCopiesSourceFields(t *testing.T) {
	store := memory.NewStore()
	store.SeedOrder(unpricedOrder("order-1"))
	store.SeedSourceOrder(entities.SourceOrder{
		ID: "order-1",
		Items: []entities.SourceLine{
			{LineID: "10", UnitPrice: "4.15", ExtendedPrice: "49.80", PreferredShipVia: "UPS"},
			{LineID: "20", UnitPrice: "18.20", ExtendedPrice: "36.40", PreferredShipVia: "LTL"},
		},
	})
	metrics := &countingMetrics{}
	service := backfill.Service{Orders: store, Sources: store, Metrics: metrics}

	order, _ := store.FindByID(context.Background(), "order-1")
	repaired, err := service.EnsurePricing(context.Background(), order)
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}

	first := repaired.Sourcing[0].Items[0]
	if first.UnitPrice != "4.15" || first.ExtendedPrice != "49.80" || first.PreferredShipVia != "UPS" {
		t.Fatalf("expected first line priced from source, got %+v", first)
	}
	second := repaired.Sourcing[0].Items[1]
	if second.UnitPrice != "18.20" || second.PreferredShipVia != "LTL" {
		t.Fatalf("expected second line priced from source, got %+v", second)
	}
	if metrics.repaired != 1 {
		t.Fatalf("expected one repaired order counted, got %d", metrics.repaired)
	}

	stored, err := store.FindByID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("load after backfill failed: %v", err)
	}
	if stored.Sourcing[0].Items[0].UnitPrice != "4.15" {
		t.Fatalf("expected repair persisted, got %q", stored.Sourcing[0].Items[0].UnitPrice)
	}
}

func TestEnsurePricingIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	store.SeedOrder(unpricedOrder("order-1"))
	store.SeedSourceOrder(entities.SourceOrder{
		ID: "order-1",
		Items: []entities.SourceLine{
			{LineID: "10", UnitPrice: "4.15", ExtendedPrice: "49.80", PreferredShipVia: "UPS"},
			{LineID: "20", UnitPrice: "18.20", ExtendedPrice: "36.40", PreferredShipVia: "LTL"},
		},
	})
	service := backfill.Service{Orders: store, Sources: store}

	order, _ := store.FindByID(context.Background(), "order-1")
	repaired, err := service.EnsurePricing(context.Background(), order)
	if err != nil {
		t.Fatalf("first backfill failed: %v", err)
	}
	if store.SaveCount() != 1 {
		t.Fatalf("expected one write for the repair, got %d", store.SaveCount())
	}

	if _, err := service.EnsurePricing(context.Background(), repaired); err != nil {
		t.Fatalf("second backfill failed: %v", err)
	}
	if store.SaveCount() != 1 {
		t.Fatalf("expected no write on an already priced order, got %d", store.SaveCount())
	}
}

func TestEnsurePricingWaitsForMissingSourceOrder(t *testing.T) {
	store := memory.NewStore()
	store.SeedOrder(unpricedOrder("order-1"))
	service := backfill.Service{Orders: store, Sources: store}

	order, _ := store.FindByID(context.Background(), "order-1")
	result, err := service.EnsurePricing(context.Background(), order)
	if err != nil {
		t.Fatalf("backfill without source should not fail: %v", err)
	}
	if result.Sourcing[0].Items[0].UnitPrice != "" {
		t.Fatalf("expected order returned unpriced until the source order arrives")
	}
	if store.SaveCount() != 0 {
		t.Fatalf("expected no write without a source order, got %d", store.SaveCount())
	}
}

func TestEnsurePricingSkipsUnmatchedLines(t *testing.T) {
	store := memory.NewStore()
	store.SeedOrder(unpricedOrder("order-1"))
	store.SeedSourceOrder(entities.SourceOrder{
		ID:    "order-1",
		Items: []entities.SourceLine{{LineID: "10", UnitPrice: "4.15", ExtendedPrice: "49.80", PreferredShipVia: "UPS"}},
	})
	alerts := &recordingAlerter{}
	metrics := &countingMetrics{}
	service := backfill.Service{Orders: store, Sources: store, Alerts: alerts, Metrics: metrics}

	order, _ := store.FindByID(context.Background(), "order-1")
	repaired, err := service.EnsurePricing(context.Background(), order)
	if err != nil {
		t.Fatalf("backfill with unmatched line failed: %v", err)
	}
	if repaired.Sourcing[0].Items[0].UnitPrice != "4.15" {
		t.Fatalf("expected matched line priced, got %q", repaired.Sourcing[0].Items[0].UnitPrice)
	}
	if repaired.Sourcing[0].Items[1].UnitPrice != "" {
		t.Fatalf("expected unmatched line left empty, got %q", repaired.Sourcing[0].Items[1].UnitPrice)
	}
	if metrics.missing != 1 {
		t.Fatalf("expected one missing line counted, got %d", metrics.missing)
	}
	if len(alerts.titles) != 1 {
		t.Fatalf("expected one skipped-lines alert, got %v", alerts.titles)
	}
}

func TestEnsurePricingToleratesEmptySourcing(t *testing.T) {
	store := memory.NewStore()
	store.SeedOrder(entities.ManualOrder{ID: "order-1"})
	alerts := &recordingAlerter{}
	service := backfill.Service{Orders: store, Sources: store, Alerts: alerts}

	order, _ := store.FindByID(context.Background(), "order-1")
	result, err := service.EnsurePricing(context.Background(), order)
	if err != nil {
		t.Fatalf("malformed order must not fail the batch: %v", err)
	}
	if result.ID != "order-1" {
		t.Fatalf("expected the order returned unchanged")
	}
	if len(alerts.titles) != 1 {
		t.Fatalf("expected one malformed-order alert, got %v", alerts.titles)
	}
	if store.SaveCount() != 0 {
		t.Fatalf("expected no write for a malformed order, got %d", store.SaveCount())
	}
}
