package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

func envelope(eventID, eventType string, payload any) contracts.EventEnvelope {
	raw, _ := json.Marshal(payload)
	return contracts.EventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		Data:      raw,
	}
}

func TestHandleCanonicalEventRejectsBadEnvelopes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	err := svc.HandleCanonicalEvent(ctx, contracts.EventEnvelope{EventType: domain.EventUserRegistered})
	if !errors.Is(err, domain.ErrInvalidEnvelope) {
		t.Fatalf("missing event id must be rejected, got %v", err)
	}
	err = svc.HandleCanonicalEvent(ctx, envelope("evt-1", "something.else", map[string]string{}))
	if !errors.Is(err, domain.ErrUnsupportedEventType) {
		t.Fatalf("expected ErrUnsupportedEventType, got %v", err)
	}
}

func TestOrderPlacedAdvancesReferral(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	click, err := svc.TrackReferralClick(ctx, TrackClickInput{Code: aff.Code})
	if err != nil {
		t.Fatalf("click: %v", err)
	}

	err = svc.HandleCanonicalEvent(ctx, envelope("evt-1", domain.EventOrderPlaced, contracts.OrderPlacedPayload{
		OrderID:   "order-1",
		UserID:    "buyer-1",
		VisitorID: click.VisitorID,
		Total:     3750,
	}))
	if err != nil {
		t.Fatalf("handle order.placed: %v", err)
	}

	ref, _ := repos.Referrals.GetByID(ctx, click.ReferralID)
	if ref.Status != domain.ReferralStatusOrdered {
		t.Fatalf("expected ordered, got %s", ref.Status)
	}
	stored, _ := repos.Affiliates.GetByID(ctx, aff.AffiliateID)
	if stored.TotalReferrals != 1 {
		t.Fatalf("stepping through registered must bump the counter, got %d", stored.TotalReferrals)
	}
}

func TestUserRegisteredAdvancesReferral(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	click, err := svc.TrackReferralClick(ctx, TrackClickInput{Code: aff.Code})
	if err != nil {
		t.Fatalf("click: %v", err)
	}

	err = svc.HandleCanonicalEvent(ctx, envelope("evt-1", domain.EventUserRegistered, contracts.UserRegisteredPayload{
		UserID:     "buyer-1",
		ReferralID: click.ReferralID,
	}))
	if err != nil {
		t.Fatalf("handle user.registered: %v", err)
	}
	ref, _ := repos.Referrals.GetByID(ctx, click.ReferralID)
	if ref.Status != domain.ReferralStatusRegistered {
		t.Fatalf("expected registered, got %s", ref.Status)
	}
}

func TestHandleCanonicalEventDeduplicates(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	click, err := svc.TrackReferralClick(ctx, TrackClickInput{Code: aff.Code})
	if err != nil {
		t.Fatalf("click: %v", err)
	}

	env := envelope("evt-1", domain.EventUserRegistered, contracts.UserRegisteredPayload{
		UserID:     "buyer-1",
		ReferralID: click.ReferralID,
	})
	if err := svc.HandleCanonicalEvent(ctx, env); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleCanonicalEvent(ctx, env); err != nil {
		t.Fatalf("redelivery must be a silent no-op: %v", err)
	}
	stored, _ := repos.Affiliates.GetByID(ctx, aff.AffiliateID)
	if stored.TotalReferrals != 1 {
		t.Fatalf("redelivery must not double count, got %d", stored.TotalReferrals)
	}
}

func TestUnreferredTrafficIsIgnored(t *testing.T) {
	svc, _ := newTestService()
	err := svc.HandleCanonicalEvent(context.Background(), envelope("evt-1", domain.EventUserRegistered, contracts.UserRegisteredPayload{
		UserID: "organic-user",
	}))
	if err != nil {
		t.Fatalf("organic registrations are not errors: %v", err)
	}
}

func TestCorruptReferralStatusDoesNotLoop(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))

	// A row whose status is outside the lifecycle enum (manual edit, bad
	// import) must be left alone, not stepped forward indefinitely.
	if err := repos.Referrals.Create(ctx, domain.Referral{
		ReferralID:  "ref-corrupt",
		AffiliateID: aff.AffiliateID,
		Status:      domain.ReferralStatus("corrupt"),
		VisitorID:   "visitor-1",
	}); err != nil {
		t.Fatalf("seed referral: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- svc.HandleCanonicalEvent(ctx, envelope("evt-1", domain.EventUserRegistered, contracts.UserRegisteredPayload{
			UserID:     "buyer-1",
			ReferralID: "ref-corrupt",
		}))
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("handle user.registered: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("handler did not return for a referral with an unknown stored status")
	}

	ref, _ := repos.Referrals.GetByID(ctx, "ref-corrupt")
	if ref.Status != domain.ReferralStatus("corrupt") {
		t.Fatalf("unknown status must stay untouched, got %s", ref.Status)
	}
}

func TestOutOfOrderSignalsNeverRegress(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	click, err := svc.TrackReferralClick(ctx, TrackClickInput{Code: aff.Code})
	if err != nil {
		t.Fatalf("click: %v", err)
	}

	if err := svc.HandleCanonicalEvent(ctx, envelope("evt-1", domain.EventOrderPlaced, contracts.OrderPlacedPayload{
		OrderID: "order-1", UserID: "buyer-1", VisitorID: click.VisitorID,
	})); err != nil {
		t.Fatalf("order.placed: %v", err)
	}
	// The registration signal arrives late; the referral is already past it.
	if err := svc.HandleCanonicalEvent(ctx, envelope("evt-2", domain.EventUserRegistered, contracts.UserRegisteredPayload{
		UserID: "buyer-1", ReferralID: click.ReferralID,
	})); err != nil {
		t.Fatalf("late user.registered: %v", err)
	}
	ref, _ := repos.Referrals.GetByID(ctx, click.ReferralID)
	if ref.Status != domain.ReferralStatusOrdered {
		t.Fatalf("late signal must not regress the referral, got %s", ref.Status)
	}
}
