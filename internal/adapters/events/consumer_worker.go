package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/application"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

type Message struct {
	Topic   string
	Payload []byte
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

type ConsumerWorker struct {
	logger   *slog.Logger
	consumer Consumer
	service  *application.Service
	interval time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, interval time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, service: service, interval: interval,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		envelope := decodeEnvelope(msg)
		if err := w.service.HandleCanonicalEvent(ctx, envelope); err != nil {
			if errors.Is(err, domain.ErrUnsupportedEventType) {
				continue
			}
			w.logger.WarnContext(ctx, "failed to handle event",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "handle_event",
				"outcome", "failure",
				"event_type", envelope.EventType,
				"error", err,
			)
		}
	}
	return nil
}

// decodeEnvelope accepts either a full canonical envelope or a bare payload
// on a topic named after the event type, which older producers still emit.
func decodeEnvelope(msg Message) contracts.EventEnvelope {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err == nil && envelope.EventType != "" && len(envelope.Data) > 0 {
		return envelope
	}
	return contracts.EventEnvelope{
		EventID:    uuid.NewString(),
		EventType:  msg.Topic,
		OccurredAt: time.Now().UTC(),
		Data:       msg.Payload,
	}
}
