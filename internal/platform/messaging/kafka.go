package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"sourcingdash/internal/shared/events"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes order lifecycle envelopes for downstream sourcing
// consumers. The writer hashes on the order id so events for one order stay
// ordered within a partition.
type Kafka struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafka(brokers []string, topic string, logger *slog.Logger) *Kafka {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
		logger: logger,
	}
}

func (k *Kafka) Publish(ctx context.Context, envelope events.Envelope) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(envelope.EntityID),
		Value: raw,
	}); err != nil {
		return err
	}
	k.logger.Info("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"event_id", envelope.EventID,
		"event_type", envelope.EventType,
	)
	return nil
}

func (k *Kafka) Close() error { return k.writer.Close() }
