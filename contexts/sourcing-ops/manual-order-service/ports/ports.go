package ports

import (
	"context"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	"sourcingdash/internal/shared/events"
)

// LifecycleEvent is the outbound integration payload written to the outbox
// alongside a claim-lifecycle state change.
type LifecycleEvent struct {
	EventID    string
	EventType  string
	OrderID    string
	OccurredAt time.Time
}

// Envelope renders the event in the canonical cross-service shape persisted
// to the outbox and published by the relay.
func (e LifecycleEvent) Envelope() events.Envelope {
	return events.Envelope{
		EventID:       e.EventID,
		EventType:     e.EventType,
		SourceService: "sourcing-dashboard",
		OccurredAtUTC: e.OccurredAt.UTC(),
		EntityType:    "manual_order",
		EntityID:      e.OrderID,
	}
}

// OrderRepository is the narrow gateway over the external manual-orders
// collection: point lookup, two filtered scans, and a versioned replace.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (entities.ManualOrder, error)
	// ListPending returns orders with orderComplete=false AND claimed=false,
	// ascending by submit date, de-duplicated by id.
	ListPending(ctx context.Context) ([]entities.ManualOrder, error)
	// ListClaimedIncomplete returns orders with orderComplete=false AND
	// claimed=true, ordered by id, de-duplicated.
	ListClaimedIncomplete(ctx context.Context) ([]entities.ManualOrder, error)
	// Save replaces the full record the caller read. The order's version
	// token must match the stored row or ErrVersionConflict is returned.
	Save(ctx context.Context, order entities.ManualOrder) (entities.ManualOrder, error)
	// SaveWithEvent must atomically persist the order and the outbox event.
	SaveWithEvent(ctx context.Context, order entities.ManualOrder, event LifecycleEvent) (entities.ManualOrder, error)
}

// SourceOrderRepository reads the companion source-order collection.
type SourceOrderRepository interface {
	GetSourceOrder(ctx context.Context, id string) (entities.SourceOrder, bool, error)
}

// Alerter delivers operational notifications. Fire-and-forget: failures must
// never affect the primary operation's result.
type Alerter interface {
	Notify(ctx context.Context, title string, body string, severity string)
}

// ClaimGuard observes claim exclusivity best-effort. Acquire reports whether
// the marker was free; admission is never decided here.
type ClaimGuard interface {
	Acquire(ctx context.Context, orderID string) (bool, error)
	Clear(ctx context.Context, orderID string) error
}

// OutboxMessage is a pending row ready to relay to the event bus.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository models worker-side outbox polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, envelope events.Envelope) error
}

// Clock allows deterministic testing of claim and completion timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event identifier generation.
type IDGenerator interface {
	NewID() string
}
