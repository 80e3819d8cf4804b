package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

// RecordCommission creates a pending commission for a referred order. One
// commission per order; replays with the same idempotency key return the
// original record. Amounts are immutable once created.
func (s *Service) RecordCommission(ctx context.Context, actor Actor, in RecordCommissionInput) (domain.Commission, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Commission{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.Commission{}, domain.ErrForbidden
	}
	if strings.TrimSpace(actor.IdempotencyKey) == "" {
		return domain.Commission{}, domain.ErrIdempotencyRequired
	}
	in.AffiliateID = strings.TrimSpace(in.AffiliateID)
	in.ReferralID = strings.TrimSpace(in.ReferralID)
	in.OrderID = strings.TrimSpace(in.OrderID)
	if in.AffiliateID == "" || in.OrderID == "" || in.CommissionAmount < 0 {
		return domain.Commission{}, domain.ErrInvalidInput
	}
	requestHash := hashJSON(map[string]any{"op": "record_commission", "affiliate_id": in.AffiliateID, "order_id": in.OrderID, "amount": in.CommissionAmount})
	if raw, ok, err := s.getIdempotent(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.Commission{}, err
	} else if ok {
		var out domain.Commission
		if json.Unmarshal(raw, &out) == nil {
			return out, nil
		}
	}
	if err := s.reserveIdempotency(ctx, actor.IdempotencyKey, requestHash); err != nil {
		return domain.Commission{}, err
	}
	if _, err := s.commissions.GetByOrderID(ctx, in.OrderID); err == nil {
		return domain.Commission{}, domain.ErrConflict
	}
	aff, err := s.affiliates.GetByID(ctx, in.AffiliateID)
	if err != nil {
		return domain.Commission{}, err
	}
	now := s.nowFn()
	row := domain.Commission{
		CommissionID:     "com_" + uuid.NewString(),
		AffiliateID:      aff.AffiliateID,
		ReferralID:       in.ReferralID,
		OrderID:          in.OrderID,
		CommissionAmount: in.CommissionAmount,
		Status:           domain.CommissionStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.commissions.Create(ctx, row); err != nil {
		return domain.Commission{}, err
	}
	if in.ReferralID != "" {
		s.advanceReferral(ctx, in.ReferralID, domain.ReferralStatusOrdered, in.OrderID, now)
	}
	_ = s.enqueueEvent(ctx, domain.EventCommissionRecorded, aff.AffiliateID, "", contracts.CommissionRecordedPayload{
		AffiliateID:  aff.AffiliateID,
		CommissionID: row.CommissionID,
		ReferralID:   row.ReferralID,
		OrderID:      row.OrderID,
		Amount:       row.CommissionAmount,
		Status:       string(row.Status),
		RecordedAt:   now.Format(time.RFC3339),
	})
	s.invalidateOverview(ctx, aff.AffiliateID)
	_ = s.completeIdempotencyJSON(ctx, actor.IdempotencyKey, 201, row)
	return row, nil
}

func (s *Service) ApproveCommission(ctx context.Context, actor Actor, commissionID string) (domain.Commission, error) {
	return s.advanceCommission(ctx, actor, commissionID, domain.CommissionStatusApproved, domain.EventCommissionApproved)
}

func (s *Service) MarkCommissionPaid(ctx context.Context, actor Actor, commissionID string) (domain.Commission, error) {
	return s.advanceCommission(ctx, actor, commissionID, domain.CommissionStatusPaid, domain.EventCommissionPaid)
}

func (s *Service) advanceCommission(ctx context.Context, actor Actor, commissionID string, to domain.CommissionStatus, eventType string) (domain.Commission, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Commission{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.Commission{}, domain.ErrForbidden
	}
	commissionID = strings.TrimSpace(commissionID)
	if commissionID == "" {
		return domain.Commission{}, domain.ErrInvalidInput
	}
	row, err := s.commissions.GetByID(ctx, commissionID)
	if err != nil {
		return domain.Commission{}, err
	}
	if !domain.CanAdvanceCommission(row.Status, to) {
		return domain.Commission{}, domain.ErrInvalidTransition
	}
	now := s.nowFn()
	if err := s.commissions.UpdateStatus(ctx, commissionID, to, now); err != nil {
		return domain.Commission{}, err
	}
	row.Status = to
	row.UpdatedAt = now
	if to == domain.CommissionStatusApproved && row.ReferralID != "" {
		s.advanceReferral(ctx, row.ReferralID, domain.ReferralStatusApproved, "", now)
	}
	_ = s.enqueueEvent(ctx, eventType, row.AffiliateID, "", contracts.CommissionStatusPayload{
		AffiliateID:  row.AffiliateID,
		CommissionID: row.CommissionID,
		Amount:       row.CommissionAmount,
		Status:       string(row.Status),
		ChangedAt:    now.Format(time.RFC3339),
	})
	s.invalidateOverview(ctx, row.AffiliateID)
	return row, nil
}

// advanceReferral moves a referral forward, stepping through intermediate
// stages when the inbound signal skips one (a visitor can order without a
// tracked registration). Regressions are dropped silently.
func (s *Service) advanceReferral(ctx context.Context, referralID string, to domain.ReferralStatus, orderID string, at time.Time) {
	row, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		return
	}
	for domain.ReferralStatusRank(row.Status) < domain.ReferralStatusRank(to) {
		next := nextReferralStatus(row.Status)
		if next == row.Status {
			// Unrecognized stored status: nothing to step from, leave the
			// row alone rather than spin.
			return
		}
		if err := s.referrals.UpdateStatus(ctx, referralID, next, orderID, at); err != nil {
			return
		}
		if next == domain.ReferralStatusRegistered {
			_ = s.affiliates.IncrementReferrals(ctx, row.AffiliateID, at)
		}
		row.Status = next
	}
}

func nextReferralStatus(s domain.ReferralStatus) domain.ReferralStatus {
	switch s {
	case domain.ReferralStatusClicked:
		return domain.ReferralStatusRegistered
	case domain.ReferralStatusRegistered:
		return domain.ReferralStatusOrdered
	case domain.ReferralStatusOrdered:
		return domain.ReferralStatusApproved
	default:
		return s
	}
}
