package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher delivers affiliate fanout events (affiliate.created,
// referral.status_changed, commission.status_changed, ...) to Kafka. The
// event type doubles as the topic name unless an override is configured,
// and messages are keyed by affiliate so one affiliate's events stay in
// a single partition.
type KafkaPublisher struct {
	writer         *kafka.Writer
	topicOverrides map[string]string
}

func NewKafkaPublisher(brokers []string, topicOverrides map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	return &KafkaPublisher{writer: writer, topicOverrides: topicOverrides}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	msg := kafka.Message{
		Topic: p.topicFor(eventType),
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) topicFor(eventType string) string {
	if mapped := p.topicOverrides[eventType]; mapped != "" {
		return mapped
	}
	return eventType
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
