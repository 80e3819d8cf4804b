package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher records affiliate fanout events on the structured log
// instead of a broker. It backs the memory-mode runtime, where outbox rows
// still drain but there is nothing downstream to deliver to.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (l *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	l.logger.InfoContext(ctx, "affiliate event drained to log",
		"module", "events.logging_publisher",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"event_type", eventType,
		"affiliate_key", partitionKey,
		"payload_bytes", len(payload),
	)
	return nil
}
