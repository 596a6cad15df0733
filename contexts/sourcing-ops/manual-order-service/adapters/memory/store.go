package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"sourcingdash/contexts/sourcing-ops/manual-order-service/domain/entities"
	domainerrors "sourcingdash/contexts/sourcing-ops/manual-order-service/domain/errors"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
)

type outboxRow struct {
	message ports.OutboxMessage
	sent    bool
}

// Store is the in-memory stand-in for the external document collections,
// used by tests and local runs. It mirrors the store contract including the
// version token check on Save.
type Store struct {
	mu sync.RWMutex

	orders  map[string]entities.ManualOrder
	sources map[string]entities.SourceOrder
	outbox  []outboxRow

	fixedNow  time.Time
	failSaves map[string]int
	saveCount int
	sequence  int
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[string]entities.ManualOrder),
		sources:   make(map[string]entities.SourceOrder),
		failSaves: make(map[string]int),
	}
}

func (s *Store) FindByID(_ context.Context, id string) (entities.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return entities.ManualOrder{}, domainerrors.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *Store) ListPending(_ context.Context) ([]entities.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]entities.ManualOrder, 0)
	for _, order := range s.orders {
		if !order.OrderComplete && !order.Claimed {
			pending = append(pending, cloneOrder(order))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].OrderSubmitDate.Equal(pending[j].OrderSubmitDate) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].OrderSubmitDate.Before(pending[j].OrderSubmitDate)
	})
	return pending, nil
}

func (s *Store) ListClaimedIncomplete(_ context.Context) ([]entities.ManualOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stale := make([]entities.ManualOrder, 0)
	for _, order := range s.orders {
		if !order.OrderComplete && order.Claimed {
			stale = append(stale, cloneOrder(order))
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })
	return stale, nil
}

func (s *Store) Save(_ context.Context, order entities.ManualOrder) (entities.ManualOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(order)
}

func (s *Store) SaveWithEvent(_ context.Context, order entities.ManualOrder, event ports.LifecycleEvent) (entities.ManualOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, err := s.saveLocked(order)
	if err != nil {
		return entities.ManualOrder{}, err
	}
	payload, err := json.Marshal(event.Envelope())
	if err != nil {
		return entities.ManualOrder{}, err
	}
	s.outbox = append(s.outbox, outboxRow{message: ports.OutboxMessage{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		CreatedAt: event.OccurredAt.UTC(),
	}})
	return saved, nil
}

func (s *Store) saveLocked(order entities.ManualOrder) (entities.ManualOrder, error) {
	if remaining, ok := s.failSaves[order.ID]; ok && remaining > 0 {
		s.failSaves[order.ID] = remaining - 1
		return entities.ManualOrder{}, domainerrors.ErrStoreUnavailable
	}
	stored, ok := s.orders[order.ID]
	if !ok {
		return entities.ManualOrder{}, domainerrors.ErrOrderNotFound
	}
	if stored.Version != order.Version {
		return entities.ManualOrder{}, domainerrors.ErrVersionConflict
	}
	order.Version++
	s.orders[order.ID] = cloneOrder(order)
	s.saveCount++
	return cloneOrder(order), nil
}

func (s *Store) GetSourceOrder(_ context.Context, id string) (entities.SourceOrder, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	return source, ok, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.sent {
			continue
		}
		pending = append(pending, row.message)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].sent = true
			return nil
		}
	}
	return domainerrors.ErrOrderNotFound
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fixedNow.IsZero() {
		return time.Now().UTC()
	}
	return s.fixedNow
}

// NewID issues sequential event ids, deterministic for tests.
func (s *Store) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("evt-%d", s.sequence)
}

// SetNow pins the clock for deterministic timestamp assertions.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedNow = now.UTC()
}

// SeedOrder inserts or replaces a manual order record.
func (s *Store) SeedOrder(order entities.ManualOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = cloneOrder(order)
}

// SeedSourceOrder inserts or replaces a source order record.
func (s *Store) SeedSourceOrder(source entities.SourceOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
}

// FailNextSaves makes the next n saves of the given order fail with a
// transient store error, for sweep resilience tests.
func (s *Store) FailNextSaves(orderID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves[orderID] = n
}

// SaveCount reports accepted writes, for backfill idempotency assertions.
func (s *Store) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveCount
}

func cloneOrder(order entities.ManualOrder) entities.ManualOrder {
	clone := order
	if order.TimeClaimed != nil {
		ts := *order.TimeClaimed
		clone.TimeClaimed = &ts
	}
	if order.TimeCompleted != nil {
		ts := *order.TimeCompleted
		clone.TimeCompleted = &ts
	}
	clone.Sourcing = make([]entities.SourceGroup, len(order.Sourcing))
	for i, group := range order.Sourcing {
		items := make([]entities.LineItem, len(group.Items))
		copy(items, group.Items)
		clone.Sourcing[i] = entities.SourceGroup{ShipFrom: group.ShipFrom, Items: items}
	}
	return clone
}
