package postgres

import (
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

func toDomainAffiliate(rec affiliateModel) domain.Affiliate {
	return domain.Affiliate{
		AffiliateID:    rec.AffiliateID,
		UserID:         rec.UserID,
		Code:           rec.Code,
		Status:         rec.Status,
		TotalClicks:    rec.TotalClicks,
		TotalReferrals: rec.TotalReferrals,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func toDomainReferral(rec referralModel) domain.Referral {
	out := domain.Referral{
		ReferralID:  rec.ReferralID,
		AffiliateID: rec.AffiliateID,
		Status:      domain.ReferralStatus(rec.Status),
		VisitorID:   rec.VisitorID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.OrderID != nil {
		out.OrderID = *rec.OrderID
	}
	return out
}

func toDomainCommission(rec commissionModel) domain.Commission {
	out := domain.Commission{
		CommissionID:     rec.CommissionID,
		AffiliateID:      rec.AffiliateID,
		OrderID:          rec.OrderID,
		CommissionAmount: rec.CommissionAmount,
		Status:           domain.CommissionStatus(rec.Status),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	if rec.ReferralID != nil {
		out.ReferralID = *rec.ReferralID
	}
	return out
}

func toDomainSettings(rec codSettingsModel) domain.CODSettings {
	return domain.CODSettings{
		SettingsID:      rec.SettingsID,
		SurchargeAmount: rec.SurchargeAmount,
		IsEnabled:       rec.IsEnabled,
		Description:     rec.Description,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
