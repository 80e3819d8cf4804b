package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// readWait bounds a single ReadMessage call so a quiet upstream topic
// does not stall the worker's tick past its drain budget.
const readWait = 250 * time.Millisecond

// KafkaConsumer subscribes to the upstream canonical topics this service
// reconciles against (user.registered and order.placed by default, per
// config). One consumer group shares the partitions across worker replicas.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topics []string) (*KafkaConsumer, error) {
	switch {
	case len(brokers) == 0:
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	case groupID == "":
		return nil, fmt.Errorf("kafka consumer requires a group id")
	case len(topics) == 0:
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     400 * time.Millisecond,
	})
	return &KafkaConsumer{reader: reader}, nil
}

// Poll reads up to max messages, returning early once the topics go quiet.
func (c *KafkaConsumer) Poll(ctx context.Context, max int) ([]Message, error) {
	if max <= 0 {
		max = 1
	}
	batch := make([]Message, 0, max)
	for len(batch) < max {
		readCtx, cancel := context.WithTimeout(ctx, readWait)
		msg, err := c.reader.ReadMessage(readCtx)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			return batch, nil
		}
		if errors.Is(err, context.Canceled) {
			return batch, ctx.Err()
		}
		if err != nil {
			return batch, fmt.Errorf("read canonical event: %w", err)
		}
		batch = append(batch, Message{Topic: msg.Topic, Payload: msg.Value})
	}
	return batch, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
