package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/contracts"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

// GetCODSettings returns the singleton settings document, materializing the
// default on first read. Retrieval failures are swallowed and replaced by the
// hardcoded default: checkout pricing must never block on the settings store.
func (s *Service) GetCODSettings(ctx context.Context) domain.CODSettings {
	now := s.nowFn()
	if s.settings == nil {
		return domain.DefaultCODSettings(now)
	}
	row, err := s.settings.Get(ctx)
	if err == nil {
		return row
	}
	def := domain.DefaultCODSettings(now)
	if errors.Is(err, domain.ErrNotFound) {
		// First read: persist the default so subsequent reads and admin
		// updates see one stable record. Create races resolve by key.
		_ = s.settings.Upsert(ctx, def)
	}
	return def
}

// UpdateCODSettings merges the given fields into the singleton. Unlike reads,
// write failures propagate: the admin issuing the change must know it failed.
func (s *Service) UpdateCODSettings(ctx context.Context, actor Actor, in UpdateCODSettingsInput) (domain.CODSettings, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.CODSettings{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.CODSettings{}, domain.ErrForbidden
	}
	if in.SurchargeAmount != nil && *in.SurchargeAmount < 0 {
		return domain.CODSettings{}, domain.ErrInvalidInput
	}
	if s.settings == nil {
		return domain.CODSettings{}, domain.ErrStorageUnavailable
	}
	now := s.nowFn()
	row, err := s.settings.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		row = domain.DefaultCODSettings(now)
	} else if err != nil {
		return domain.CODSettings{}, err
	}
	if in.SurchargeAmount != nil {
		row.SurchargeAmount = *in.SurchargeAmount
	}
	if in.IsEnabled != nil {
		row.IsEnabled = *in.IsEnabled
	}
	if in.Description != nil {
		row.Description = strings.TrimSpace(*in.Description)
	}
	row.UpdatedAt = now
	if err := s.settings.Upsert(ctx, row); err != nil {
		return domain.CODSettings{}, err
	}
	return row, nil
}

// QuoteOrder is the one call site of the pricing calculator. The enable flag
// gates the whole surcharge mechanism here, upstream of the pure function,
// which is the contract the calculator is written against.
func (s *Service) QuoteOrder(ctx context.Context, in QuoteOrderInput) domain.PricingBreakdown {
	settings := s.GetCODSettings(ctx)
	surcharge := settings.SurchargeAmount
	if !settings.IsEnabled {
		surcharge = 0
	}
	breakdown := domain.CalculateTotalWithCOD(in.Subtotal, in.ShippingFee, in.PaymentMethod, surcharge)
	_ = s.enqueueEvent(ctx, domain.EventOrderQuoted, in.AffiliateID, "", contracts.OrderQuotedPayload{
		AffiliateID:  in.AffiliateID,
		Subtotal:     breakdown.Subtotal,
		ShippingFee:  breakdown.ShippingFee,
		CODSurcharge: breakdown.CODSurcharge,
		Total:        breakdown.Total,
		QuotedAt:     s.nowFn().Format(time.RFC3339),
	})
	return breakdown
}
