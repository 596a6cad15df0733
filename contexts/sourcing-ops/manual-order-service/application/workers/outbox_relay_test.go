package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/memory"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/application/workers"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
	"sourcingdash/internal/shared/events"
)

type capturingPublisher struct {
	published []events.Envelope
	failAfter int
}

func (p *capturingPublisher) Publish(_ context.Context, envelope events.Envelope) error {
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, envelope)
	return nil
}

func seedOutboxEvent(t *testing.T, store *memory.Store, orderID, eventID, eventType string) {
	t.Helper()
	occurred := time.Date(2026, 3, 12, 16, 0, 0, 0, time.UTC)
	store.SeedOrder(entities.ManualOrder{ID: orderID})
	order, err := store.FindByID(context.Background(), orderID)
	if err != nil {
		t.Fatalf("load %s failed: %v", orderID, err)
	}
	order.Claim(occurred)
	if _, err := store.SaveWithEvent(context.Background(), order, ports.LifecycleEvent{
		EventID:    eventID,
		EventType:  eventType,
		OrderID:    orderID,
		OccurredAt: occurred,
	}); err != nil {
		t.Fatalf("seed outbox event failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndAcks(t *testing.T) {
	store := memory.NewStore()
	seedOutboxEvent(t, store, "order-1", "evt-claim-1", "sourcing.order_claimed")
	seedOutboxEvent(t, store, "order-2", "evt-claim-2", "sourcing.order_claimed")

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	sent, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 sent, got %d", sent)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.published))
	}

	envelope := publisher.published[0]
	if envelope.EventType != "sourcing.order_claimed" || envelope.EntityID != "order-1" {
		t.Fatalf("unexpected first envelope: %+v", envelope)
	}
	if envelope.SourceService != "sourcing-dashboard" || envelope.EntityType != "manual_order" {
		t.Fatalf("expected canonical envelope identity, got %+v", envelope)
	}

	again, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second relay pass failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected acked rows to stay acked, got %d resent", again)
	}
}

func TestOutboxRelayKeepsFailedRowsPending(t *testing.T) {
	store := memory.NewStore()
	seedOutboxEvent(t, store, "order-1", "evt-claim-1", "sourcing.order_claimed")
	seedOutboxEvent(t, store, "order-2", "evt-claim-2", "sourcing.order_claimed")

	publisher := &capturingPublisher{failAfter: 1}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	sent, err := relay.RunOnce(context.Background())
	if err == nil {
		t.Fatalf("expected publish failure surfaced")
	}
	if sent != 1 {
		t.Fatalf("expected 1 sent before the failure, got %d", sent)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "evt-claim-2" {
		t.Fatalf("expected evt-claim-2 still pending, got %v", pending)
	}
}
