package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"gorm.io/gorm"
)

type referralRepository struct {
	db *gorm.DB
}

func (r *referralRepository) Create(ctx context.Context, row domain.Referral) error {
	rec := referralModel{
		ReferralID:  row.ReferralID,
		AffiliateID: row.AffiliateID,
		Status:      string(row.Status),
		VisitorID:   row.VisitorID,
		OrderID:     optional(row.OrderID),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *referralRepository) GetByID(ctx context.Context, referralID string) (domain.Referral, error) {
	var rec referralModel
	if err := r.db.WithContext(ctx).Where("referral_id = ?", strings.TrimSpace(referralID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Referral{}, domain.ErrNotFound
		}
		return domain.Referral{}, err
	}
	return toDomainReferral(rec), nil
}

func (r *referralRepository) GetByVisitorID(ctx context.Context, visitorID string) (domain.Referral, error) {
	var rec referralModel
	if err := r.db.WithContext(ctx).Where("visitor_id = ?", strings.TrimSpace(visitorID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Referral{}, domain.ErrNotFound
		}
		return domain.Referral{}, err
	}
	return toDomainReferral(rec), nil
}

func (r *referralRepository) UpdateStatus(ctx context.Context, referralID string, status domain.ReferralStatus, orderID string, at time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": at,
	}
	if orderID != "" {
		updates["order_id"] = orderID
	}
	res := r.db.WithContext(ctx).Model(&referralModel{}).Where("referral_id = ?", referralID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *referralRepository) ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Referral, error) {
	var rows []referralModel
	if err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Referral, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainReferral(rec))
	}
	return out, nil
}
