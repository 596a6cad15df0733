package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
)

func TestClaimStampsTimeClaimed(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	order := ManualOrder{ID: "order-1"}

	order.Claim(now)

	if !order.Claimed {
		t.Fatalf("expected order to be claimed")
	}
	if order.TimeClaimed == nil || !order.TimeClaimed.Equal(now) {
		t.Fatalf("expected timeClaimed %v, got %v", now, order.TimeClaimed)
	}
}

func TestReleaseClearsClaimAndTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	order := ManualOrder{ID: "order-1"}
	order.Claim(now)

	order.Release()

	if order.Claimed {
		t.Fatalf("expected claim flag cleared")
	}
	if order.TimeClaimed != nil {
		t.Fatalf("expected timeClaimed cleared, got %v", order.TimeClaimed)
	}

	// Releasing an unclaimed order stays a no-op.
	order.Release()
	if order.Claimed || order.TimeClaimed != nil {
		t.Fatalf("expected repeated release to leave order unclaimed")
	}
}

func TestForceReleaseKeepsTimeClaimed(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	order := ManualOrder{ID: "order-1"}
	order.Claim(now)

	order.ForceRelease()

	if order.Claimed {
		t.Fatalf("expected claim flag cleared")
	}
	if order.TimeClaimed == nil || !order.TimeClaimed.Equal(now) {
		t.Fatalf("expected timeClaimed preserved for audit, got %v", order.TimeClaimed)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	first := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)
	order := ManualOrder{ID: "order-1"}
	order.Claim(first)

	order.Complete(first)
	order.Complete(later)

	if !order.OrderComplete {
		t.Fatalf("expected order complete")
	}
	if order.TimeCompleted == nil || !order.TimeCompleted.Equal(first) {
		t.Fatalf("expected the original completion timestamp kept, got %v", order.TimeCompleted)
	}
	if order.TimeClaimed == nil {
		t.Fatalf("expected timeClaimed untouched by completion")
	}
}

func TestIsClaimedCoversCompletedOrders(t *testing.T) {
	order := ManualOrder{ID: "order-1"}
	if order.IsClaimed() {
		t.Fatalf("fresh order should not be claimed")
	}

	order.Claim(time.Now())
	if !order.IsClaimed() {
		t.Fatalf("claimed order should report claimed")
	}

	order.Release()
	order.Complete(time.Now())
	if !order.IsClaimed() {
		t.Fatalf("completed order should report claimed even without an active claim")
	}
}

func TestSetNoteRejectsBlankNote(t *testing.T) {
	order := ManualOrder{ID: "order-1", Notes: "call the branch"}

	if err := order.SetNote("   "); !errors.Is(err, domainerrors.ErrInvalidNote) {
		t.Fatalf("expected ErrInvalidNote, got %v", err)
	}
	if order.Notes != "call the branch" {
		t.Fatalf("expected note unchanged on rejection, got %q", order.Notes)
	}

	if err := order.SetNote("ships from Dallas"); err != nil {
		t.Fatalf("set note failed: %v", err)
	}
	if order.Notes != "ships from Dallas" {
		t.Fatalf("expected note replaced, got %q", order.Notes)
	}
}

func TestNeedsBackfillSamplesFirstLine(t *testing.T) {
	order := ManualOrder{
		ID: "order-1",
		Sourcing: []SourceGroup{{
			ShipFrom: "branch-91",
			Items: []LineItem{
				{LineItemID: "10", UnitPrice: "", PreferredShipVia: "", Alt1Code: ""},
				{LineItemID: "20", UnitPrice: "4.15", PreferredShipVia: "UPS", Alt1Code: "A1"},
			},
		}},
	}

	needs, err := order.NeedsBackfill()
	if err != nil {
		t.Fatalf("needs backfill failed: %v", err)
	}
	if !needs {
		t.Fatalf("expected backfill needed when first line has empty pricing")
	}

	order.Sourcing[0].Items[0] = LineItem{LineItemID: "10", UnitPrice: "9.99", PreferredShipVia: "LTL", Alt1Code: "B2"}
	needs, err = order.NeedsBackfill()
	if err != nil {
		t.Fatalf("needs backfill failed: %v", err)
	}
	if needs {
		t.Fatalf("expected no backfill when first line is fully priced")
	}
}

func TestNeedsBackfillRejectsEmptySourcing(t *testing.T) {
	empty := ManualOrder{ID: "order-1"}
	if _, err := empty.NeedsBackfill(); !errors.Is(err, domainerrors.ErrInvalidOrderData) {
		t.Fatalf("expected ErrInvalidOrderData for empty sourcing, got %v", err)
	}

	noItems := ManualOrder{ID: "order-2", Sourcing: []SourceGroup{{ShipFrom: "branch-91"}}}
	if _, err := noItems.FirstLine(); !errors.Is(err, domainerrors.ErrInvalidOrderData) {
		t.Fatalf("expected ErrInvalidOrderData for empty first group, got %v", err)
	}
}
