package application

import (
	"context"
	"errors"
	"testing"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

func TestRecordCommissionRequiresIdempotencyKey(t *testing.T) {
	svc, _ := newTestService()
	aff, _ := svc.EnrollAffiliate(context.Background(), affiliateActor("user-1"))

	_, err := svc.RecordCommission(context.Background(), adminActor(""), RecordCommissionInput{
		AffiliateID: aff.AffiliateID, OrderID: "order-1", CommissionAmount: 100,
	})
	if !errors.Is(err, domain.ErrIdempotencyRequired) {
		t.Fatalf("expected ErrIdempotencyRequired, got %v", err)
	}
}

func TestRecordCommissionRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	actor := Actor{SubjectID: "user-1", Role: "affiliate", IdempotencyKey: "idem-1"}
	_, err := svc.RecordCommission(context.Background(), actor, RecordCommissionInput{
		AffiliateID: "aff-x", OrderID: "order-1", CommissionAmount: 100,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRecordCommissionReplayReturnsOriginal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	in := RecordCommissionInput{AffiliateID: aff.AffiliateID, OrderID: "order-1", CommissionAmount: 100}

	first, err := svc.RecordCommission(ctx, adminActor("idem-1"), in)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := svc.RecordCommission(ctx, adminActor("idem-1"), in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if first.CommissionID != second.CommissionID {
		t.Fatalf("replay must return the original record, got %s vs %s", first.CommissionID, second.CommissionID)
	}
}

func TestRecordCommissionOnePerOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	in := RecordCommissionInput{AffiliateID: aff.AffiliateID, OrderID: "order-1", CommissionAmount: 100}

	if _, err := svc.RecordCommission(ctx, adminActor("idem-1"), in); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := svc.RecordCommission(ctx, adminActor("idem-2"), in)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for second commission on same order, got %v", err)
	}
}

func TestCommissionLifecycleTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	row, err := svc.RecordCommission(ctx, adminActor("idem-1"), RecordCommissionInput{
		AffiliateID: aff.AffiliateID, OrderID: "order-1", CommissionAmount: 100,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if row.Status != domain.CommissionStatusPending {
		t.Fatalf("new commissions start pending, got %s", row.Status)
	}

	// pending -> paid skips approval and must be rejected.
	if _, err := svc.MarkCommissionPaid(ctx, adminActor(""), row.CommissionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	approved, err := svc.ApproveCommission(ctx, adminActor(""), row.CommissionID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.CommissionStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if _, err := svc.ApproveCommission(ctx, adminActor(""), row.CommissionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("double approve must fail, got %v", err)
	}

	paid, err := svc.MarkCommissionPaid(ctx, adminActor(""), row.CommissionID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != domain.CommissionStatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}
	if paid.CommissionAmount != 100 {
		t.Fatalf("amount is immutable across transitions, got %v", paid.CommissionAmount)
	}
}

func TestApproveCommissionAdvancesReferral(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	click, err := svc.TrackReferralClick(ctx, TrackClickInput{Code: aff.Code})
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	row, err := svc.RecordCommission(ctx, adminActor("idem-1"), RecordCommissionInput{
		AffiliateID: aff.AffiliateID, ReferralID: click.ReferralID, OrderID: "order-1", CommissionAmount: 100,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	ref, _ := repos.Referrals.GetByID(ctx, click.ReferralID)
	if ref.Status != domain.ReferralStatusOrdered {
		t.Fatalf("recording a commission implies the referral ordered, got %s", ref.Status)
	}
	if ref.OrderID != "order-1" {
		t.Fatalf("order id must reach the referral, got %q", ref.OrderID)
	}

	if _, err := svc.ApproveCommission(ctx, adminActor(""), row.CommissionID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	ref, _ = repos.Referrals.GetByID(ctx, click.ReferralID)
	if ref.Status != domain.ReferralStatusApproved {
		t.Fatalf("approval must advance the referral, got %s", ref.Status)
	}

	stored, _ := repos.Affiliates.GetByID(ctx, aff.AffiliateID)
	if stored.TotalReferrals != 1 {
		t.Fatalf("conversion must bump the referral counter once, got %d", stored.TotalReferrals)
	}
}

func TestRecordCommissionEnqueuesOutboxEvent(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	aff, _ := svc.EnrollAffiliate(ctx, affiliateActor("user-1"))
	if _, err := svc.RecordCommission(ctx, adminActor("idem-1"), RecordCommissionInput{
		AffiliateID: aff.AffiliateID, OrderID: "order-1", CommissionAmount: 100,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	pending, err := repos.Outbox.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	found := false
	for _, rec := range pending {
		if rec.EventType == domain.EventCommissionRecorded {
			found = true
			if rec.PartitionKey != aff.AffiliateID {
				t.Fatalf("partition key must be the affiliate id, got %q", rec.PartitionKey)
			}
		}
	}
	if !found {
		t.Fatalf("commission recorded event not enqueued")
	}
}
