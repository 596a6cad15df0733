package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
)

func TestSaveRejectsStaleVersion(t *testing.T) {
	store := NewStore()
	store.SeedOrder(entities.ManualOrder{ID: "order-1"})

	first, err := store.FindByID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second := first

	first.Notes = "writer one"
	if _, err := store.Save(context.Background(), first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second.Notes = "writer two"
	if _, err := store.Save(context.Background(), second); !errors.Is(err, domainerrors.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for stale token, got %v", err)
	}

	stored, _ := store.FindByID(context.Background(), "order-1")
	if stored.Notes != "writer one" {
		t.Fatalf("expected first writer's note kept, got %q", stored.Notes)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version bumped once, got %d", stored.Version)
	}
}

func TestSaveUnknownOrder(t *testing.T) {
	store := NewStore()
	if _, err := store.Save(context.Background(), entities.ManualOrder{ID: "missing"}); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListPendingOrdersBySubmitDate(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store := NewStore()
	store.SeedOrder(entities.ManualOrder{ID: "order-c", OrderSubmitDate: base.Add(2 * time.Hour)})
	store.SeedOrder(entities.ManualOrder{ID: "order-a", OrderSubmitDate: base})
	// Same submit date as order-a; the id breaks the tie.
	store.SeedOrder(entities.ManualOrder{ID: "order-b", OrderSubmitDate: base})

	pending, err := store.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	got := make([]string, 0, len(pending))
	for _, order := range pending {
		got = append(got, order.ID)
	}
	want := []string{"order-a", "order-b", "order-c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestListClaimedIncompleteOrdersByID(t *testing.T) {
	claimedAt := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	store := NewStore()
	store.SeedOrder(entities.ManualOrder{ID: "order-z", Claimed: true, TimeClaimed: &claimedAt})
	store.SeedOrder(entities.ManualOrder{ID: "order-m", Claimed: true, TimeClaimed: &claimedAt})
	store.SeedOrder(entities.ManualOrder{ID: "order-open"})
	store.SeedOrder(entities.ManualOrder{ID: "order-done", Claimed: true, OrderComplete: true})

	stale, err := store.ListClaimedIncomplete(context.Background())
	if err != nil {
		t.Fatalf("list claimed incomplete failed: %v", err)
	}
	if len(stale) != 2 || stale[0].ID != "order-m" || stale[1].ID != "order-z" {
		t.Fatalf("expected [order-m order-z], got %v", stale)
	}
}

func TestFindByIDReturnsIsolatedCopy(t *testing.T) {
	store := NewStore()
	store.SeedOrder(entities.ManualOrder{
		ID: "order-1",
		Sourcing: []entities.SourceGroup{{
			ShipFrom: "branch-91",
			Items:    []entities.LineItem{{LineItemID: "10", UnitPrice: "4.15"}},
		}},
	})

	loaded, err := store.FindByID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	loaded.Sourcing[0].Items[0].UnitPrice = "mutated"

	reloaded, _ := store.FindByID(context.Background(), "order-1")
	if reloaded.Sourcing[0].Items[0].UnitPrice != "4.15" {
		t.Fatalf("expected stored order unaffected by caller mutation, got %q", reloaded.Sourcing[0].Items[0].UnitPrice)
	}
}
