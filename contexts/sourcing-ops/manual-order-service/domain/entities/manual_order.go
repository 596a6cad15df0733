package entities

import (
	"strings"
	"time"

	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
)

// LineItem is one sourced line of a manual order. Price fields are the
// opaque strings the upstream order system emits; an empty unit price marks
// a line that still needs backfill from the source order.
type LineItem struct {
	LineItemID       string
	Description      string
	Quantity         int
	UnitPrice        string
	ExtendedPrice    string
	PreferredShipVia string
	Alt1Code         string
}

// SourceGroup is an ordered block of line items sourced from one location.
type SourceGroup struct {
	ShipFrom string
	Items    []LineItem
}

// ManualOrder is a sales order flagged for human-assisted sourcing.
// Its id equals the originating order's id. Version is the optimistic
// concurrency token checked by the store on replace.
type ManualOrder struct {
	ID              string
	Claimed         bool
	OrderComplete   bool
	TimeClaimed     *time.Time
	TimeCompleted   *time.Time
	Notes           string
	OrderSubmitDate time.Time
	Sourcing        []SourceGroup
	Version         int64
}

// Claim marks the order as actively worked by a rep. The overwrite is
// unconditional: a concurrent claim is an accepted last-write-wins race.
func (o *ManualOrder) Claim(now time.Time) {
	ts := now.UTC()
	o.Claimed = true
	o.TimeClaimed = &ts
}

// Release hands the order back to the pending pool. Idempotent.
func (o *ManualOrder) Release() {
	o.Claimed = false
	o.TimeClaimed = nil
}

// ForceRelease clears the claim flag but keeps timeClaimed, which is what
// the nightly reconciliation sweep does to abandoned claims.
func (o *ManualOrder) ForceRelease() {
	o.Claimed = false
}

// Complete marks the order terminal. Idempotent: replays leave the original
// completion timestamp in place. timeClaimed is intentionally not cleared.
func (o *ManualOrder) Complete(now time.Time) {
	if o.OrderComplete {
		return
	}
	ts := now.UTC()
	o.OrderComplete = true
	o.TimeCompleted = &ts
}

// IsClaimed reports whether the order is unavailable for a new rep, which
// covers both an active claim and a completed order.
func (o ManualOrder) IsClaimed() bool {
	return o.Claimed || o.OrderComplete
}

// SetNote replaces the rep-editable free-text note.
func (o *ManualOrder) SetNote(note string) error {
	if strings.TrimSpace(note) == "" {
		return domainerrors.ErrInvalidNote
	}
	o.Notes = note
	return nil
}

// FirstLine returns the sampling line used by the backfill check.
func (o ManualOrder) FirstLine() (LineItem, error) {
	if len(o.Sourcing) == 0 || len(o.Sourcing[0].Items) == 0 {
		return LineItem{}, domainerrors.ErrInvalidOrderData
	}
	return o.Sourcing[0].Items[0], nil
}

// NeedsBackfill samples the first line of the first sourcing group. Pricing
// is populated atomically across all lines upstream, so one sample decides
// for the whole order.
func (o ManualOrder) NeedsBackfill() (bool, error) {
	line, err := o.FirstLine()
	if err != nil {
		return false, err
	}
	return line.UnitPrice == "" || line.PreferredShipVia == "" || line.Alt1Code == "", nil
}
