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

func (s *Service) EnrollAffiliate(ctx context.Context, actor Actor) (domain.Affiliate, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Affiliate{}, domain.ErrUnauthorized
	}
	return s.ensureAffiliate(ctx, actor.SubjectID)
}

func (s *Service) TrackReferralClick(ctx context.Context, in TrackClickInput) (TrackClickResult, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" {
		return TrackClickResult{}, domain.ErrInvalidInput
	}
	aff, err := s.affiliates.GetByCode(ctx, in.Code)
	if err != nil {
		return TrackClickResult{}, err
	}
	now := s.nowFn()

	// The stored counter counts every click; the referral log keeps one row
	// per visitor with a single current status. Reconciliation takes the max
	// of the two at read time.
	_ = s.affiliates.IncrementClicks(ctx, aff.AffiliateID, now)

	if in.VisitorID == "" {
		in.VisitorID = uuid.NewString()
	} else if row, lookupErr := s.referrals.GetByVisitorID(ctx, in.VisitorID); lookupErr == nil {
		s.invalidateOverview(ctx, aff.AffiliateID)
		return TrackClickResult{RedirectURL: s.cfg.PublicBaseURL, VisitorID: in.VisitorID, AffiliateID: row.AffiliateID, ReferralID: row.ReferralID}, nil
	}

	row := domain.Referral{
		ReferralID:  "ref_" + uuid.NewString(),
		AffiliateID: aff.AffiliateID,
		Status:      domain.ReferralStatusClicked,
		VisitorID:   in.VisitorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.referrals.Create(ctx, row); err != nil {
		return TrackClickResult{}, err
	}
	_ = s.enqueueEvent(ctx, domain.EventReferralClicked, aff.AffiliateID, "", contracts.ReferralClickedPayload{
		AffiliateID: aff.AffiliateID,
		ReferralID:  row.ReferralID,
		VisitorID:   row.VisitorID,
		ClickedAt:   now.Format(time.RFC3339),
	})
	s.invalidateOverview(ctx, aff.AffiliateID)
	return TrackClickResult{RedirectURL: s.cfg.PublicBaseURL, VisitorID: row.VisitorID, AffiliateID: aff.AffiliateID, ReferralID: row.ReferralID}, nil
}

// GetAffiliateOverview derives the dashboard totals from the full referral
// and commission snapshot. Partial load failures degrade to whatever the
// stored counters can prove; the dashboard never sees an error from here
// once the affiliate itself resolves.
func (s *Service) GetAffiliateOverview(ctx context.Context, actor Actor) (Overview, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return Overview{}, domain.ErrUnauthorized
	}
	aff, err := s.ensureAffiliate(ctx, actor.SubjectID)
	if err != nil {
		return Overview{}, err
	}
	if s.cache != nil {
		if raw, cacheErr := s.cache.Get(ctx, overviewCacheKey(aff.AffiliateID)); cacheErr == nil && raw != "" {
			var cached Overview
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}
	referrals, err := s.referrals.ListByAffiliateID(ctx, aff.AffiliateID)
	if err != nil {
		referrals = nil
	}
	commissions, err := s.commissions.ListByAffiliateID(ctx, aff.AffiliateID)
	if err != nil {
		commissions = nil
	}
	totals := domain.ComputeAffiliateTotals(aff, referrals, commissions)
	out := Overview{
		AffiliateID:      aff.AffiliateID,
		DisplayClicks:    totals.DisplayClicks,
		DisplayReferrals: totals.DisplayReferrals,
		PendingTotal:     totals.PendingTotal,
		ApprovedTotal:    totals.ApprovedTotal,
		PaidTotal:        totals.PaidTotal,
		TotalCommission:  totals.TotalCommission,
	}
	if s.cache != nil {
		if raw, marshalErr := json.Marshal(out); marshalErr == nil {
			_ = s.cache.Set(ctx, overviewCacheKey(aff.AffiliateID), string(raw), s.cfg.OverviewCacheTTL)
		}
	}
	return out, nil
}

func (s *Service) ListCommissions(ctx context.Context, actor Actor) ([]domain.Commission, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return nil, domain.ErrUnauthorized
	}
	aff, err := s.ensureAffiliate(ctx, actor.SubjectID)
	if err != nil {
		return nil, err
	}
	return s.commissions.ListByAffiliateID(ctx, aff.AffiliateID)
}

func (s *Service) ensureAffiliate(ctx context.Context, userID string) (domain.Affiliate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Affiliate{}, domain.ErrInvalidInput
	}
	if row, err := s.affiliates.GetByUserID(ctx, userID); err == nil {
		return row, nil
	}
	now := s.nowFn()
	row := domain.Affiliate{
		AffiliateID: "aff_" + uuid.NewString(),
		UserID:      userID,
		Code:        affiliateCode(),
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.affiliates.Create(ctx, row); err != nil {
		if ex, err2 := s.affiliates.GetByUserID(ctx, userID); err2 == nil {
			return ex, nil
		}
		return domain.Affiliate{}, err
	}
	return row, nil
}
