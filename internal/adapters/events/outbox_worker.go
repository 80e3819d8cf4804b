package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

// OutboxWorker drains pending outbox rows and publishes them as canonical
// envelopes. Failed publishes stay pending and are retried on the next tick.
type OutboxWorker struct {
	logger      *slog.Logger
	outbox      ports.OutboxRepository
	publisher   ports.EventPublisher
	serviceName string
	interval    time.Duration
	batchSize   int
}

func NewOutboxWorker(logger *slog.Logger, outbox ports.OutboxRepository, publisher ports.EventPublisher, serviceName string, interval time.Duration, batchSize int) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxWorker{
		logger: logger, outbox: outbox, publisher: publisher,
		serviceName: serviceName, interval: interval, batchSize: batchSize,
	}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"module", "events.outbox_worker",
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

func (w *OutboxWorker) processOnce(ctx context.Context) error {
	records, err := w.outbox.ListPending(ctx, w.batchSize)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, rec := range records {
		raw, marshalErr := json.Marshal(envelopeFor(rec, w.serviceName))
		if marshalErr != nil {
			_ = w.outbox.MarkFailed(ctx, rec.RecordID, marshalErr.Error(), now)
			continue
		}
		if err := w.publisher.Publish(ctx, rec.EventType, raw, rec.PartitionKey); err != nil {
			_ = w.outbox.MarkFailed(ctx, rec.RecordID, err.Error(), now)
			continue
		}
		_ = w.outbox.MarkSent(ctx, rec.RecordID, now)
	}
	return nil
}

func envelopeFor(rec ports.OutboxRecord, serviceName string) contracts.EventEnvelope {
	return contracts.EventEnvelope{
		EventID:          rec.RecordID,
		EventType:        rec.EventType,
		EventClass:       rec.EventClass,
		OccurredAt:       rec.CreatedAt,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(rec.EventType),
		PartitionKey:     rec.PartitionKey,
		SourceService:    serviceName,
		TraceID:          rec.TraceID,
		SchemaVersion:    "1.0",
		Data:             json.RawMessage(rec.Payload),
	}
}
