package application

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

// HandleCanonicalEvent routes an inbound platform event. Duplicate envelopes
// are dropped via the dedup store before any state changes.
func (s *Service) HandleCanonicalEvent(ctx context.Context, envelope contracts.EventEnvelope) error {
	if err := validateEnvelope(envelope); err != nil {
		return err
	}
	if s.eventDedup != nil {
		dup, err := s.eventDedup.IsDuplicate(ctx, envelope.EventID, s.nowFn())
		if err != nil {
			return err
		}
		if dup {
			return nil
		}
		if err := s.eventDedup.MarkProcessed(ctx, envelope.EventID, envelope.EventType, s.nowFn().Add(s.cfg.EventDedupTTL)); err != nil {
			return err
		}
	}
	switch envelope.EventType {
	case domain.EventUserRegistered:
		return s.handleUserRegistered(ctx, envelope.Data)
	case domain.EventOrderPlaced:
		return s.handleOrderPlaced(ctx, envelope.Data)
	default:
		return domain.ErrUnsupportedEventType
	}
}

func (s *Service) handleUserRegistered(ctx context.Context, raw json.RawMessage) error {
	var payload contracts.UserRegisteredPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.ErrInvalidEnvelope
	}
	row, err := s.resolveReferral(ctx, payload.ReferralID, payload.VisitorID)
	if err != nil {
		// Unreferred registrations are normal platform traffic, not errors.
		return nil
	}
	s.advanceReferral(ctx, row.ReferralID, domain.ReferralStatusRegistered, "", s.nowFn())
	s.invalidateOverview(ctx, row.AffiliateID)
	return nil
}

func (s *Service) handleOrderPlaced(ctx context.Context, raw json.RawMessage) error {
	var payload contracts.OrderPlacedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.ErrInvalidEnvelope
	}
	row, err := s.resolveReferral(ctx, payload.ReferralID, payload.VisitorID)
	if err != nil {
		return nil
	}
	s.advanceReferral(ctx, row.ReferralID, domain.ReferralStatusOrdered, payload.OrderID, s.nowFn())
	s.invalidateOverview(ctx, row.AffiliateID)
	return nil
}

func (s *Service) resolveReferral(ctx context.Context, referralID, visitorID string) (domain.Referral, error) {
	if strings.TrimSpace(referralID) != "" {
		return s.referrals.GetByID(ctx, referralID)
	}
	if strings.TrimSpace(visitorID) != "" {
		return s.referrals.GetByVisitorID(ctx, visitorID)
	}
	return domain.Referral{}, domain.ErrNotFound
}

func validateEnvelope(envelope contracts.EventEnvelope) error {
	if strings.TrimSpace(envelope.EventID) == "" || strings.TrimSpace(envelope.EventType) == "" {
		return domain.ErrInvalidEnvelope
	}
	if len(envelope.Data) == 0 {
		return domain.ErrInvalidEnvelope
	}
	return nil
}
