package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/memory"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

type capturePublisher struct {
	published []contracts.EventEnvelope
	failWith  error
}

func (p *capturePublisher) Publish(_ context.Context, _ string, payload []byte, _ string) error {
	if p.failWith != nil {
		return p.failWith
	}
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return err
	}
	p.published = append(p.published, envelope)
	return nil
}

func enqueueTestRecord(t *testing.T, outbox ports.OutboxRepository, recordID string) {
	t.Helper()
	payload, _ := json.Marshal(contracts.ReferralClickedPayload{AffiliateID: "aff-1", ReferralID: "ref-1"})
	err := outbox.Enqueue(context.Background(), ports.OutboxRecord{
		RecordID:     recordID,
		EventType:    domain.EventReferralClicked,
		EventClass:   domain.CanonicalEventClass(domain.EventReferralClicked),
		PartitionKey: "aff-1",
		Payload:      payload,
		TraceID:      "trace-1",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestOutboxWorkerPublishesCanonicalEnvelopes(t *testing.T) {
	repos := memory.NewRepositories()
	pub := &capturePublisher{}
	worker := NewOutboxWorker(slog.Default(), repos.Outbox, pub, "M90-Affiliate-Pricing-Service", time.Second, 10)
	enqueueTestRecord(t, repos.Outbox, "rec-1")

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published envelope, got %d", len(pub.published))
	}
	envelope := pub.published[0]
	if envelope.EventType != domain.EventReferralClicked {
		t.Fatalf("unexpected event type %q", envelope.EventType)
	}
	if envelope.PartitionKeyPath != "data.affiliate_id" || envelope.PartitionKey != "aff-1" {
		t.Fatalf("partition key contract broken: %+v", envelope)
	}
	if envelope.SourceService != "M90-Affiliate-Pricing-Service" || envelope.TraceID != "trace-1" {
		t.Fatalf("envelope provenance missing: %+v", envelope)
	}

	pending, err := repos.Outbox.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("published records must leave the pending set, got %d", len(pending))
	}
}

func TestOutboxWorkerRetriesFailedPublishes(t *testing.T) {
	repos := memory.NewRepositories()
	pub := &capturePublisher{failWith: errors.New("broker down")}
	worker := NewOutboxWorker(slog.Default(), repos.Outbox, pub, "M90-Affiliate-Pricing-Service", time.Second, 10)
	enqueueTestRecord(t, repos.Outbox, "rec-1")

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	pending, err := repos.Outbox.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must stay pending, got %d", len(pending))
	}
	if pending[0].RetryCount != 1 || pending[0].LastError == "" {
		t.Fatalf("failure must be recorded on the row: %+v", pending[0])
	}

	pub.failWith = nil
	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	pending, _ = repos.Outbox.ListPending(context.Background(), 10)
	if len(pending) != 0 {
		t.Fatalf("recovered publish must drain the outbox, got %d pending", len(pending))
	}
}
