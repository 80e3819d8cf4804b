package events

import "context"

// NoopConsumer stands in when no Kafka brokers are configured: the worker's
// reconcile loop still ticks, it just never sees an upstream message.
type NoopConsumer struct{}

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

// Poll never yields messages and never blocks.
func (NoopConsumer) Poll(context.Context, int) ([]Message, error) {
	return nil, nil
}
