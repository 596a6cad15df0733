package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "sourcingdash/contexts/sourcing-ops/manual-order-service/application"
	"sourcingdash/contexts/sourcing-ops/manual-order-service/ports"
	"sourcingdash/internal/shared/events"
)

// OutboxRelay drains pending lifecycle events from the outbox table to the
// event bus. Rows that fail to publish stay pending for the next poll.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "manual_order_outbox_list_failed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	sent := 0
	for _, message := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "manual_order_outbox_decode_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return sent, err
		}

		if err := r.Publisher.Publish(ctx, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "manual_order_outbox_publish_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return sent, err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "manual_order_outbox_mark_sent_failed",
				"module", "sourcing-ops/manual-order-service",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "manual_order_outbox_relay_completed",
			"module", "sourcing-ops/manual-order-service",
			"layer", "worker",
			"sent_count", sent,
		)
	}
	return sent, nil
}
