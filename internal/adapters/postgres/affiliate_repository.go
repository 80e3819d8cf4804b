package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"gorm.io/gorm"
)

type affiliateRepository struct {
	db *gorm.DB
}

func (r *affiliateRepository) Create(ctx context.Context, row domain.Affiliate) error {
	rec := affiliateModel{
		AffiliateID:    row.AffiliateID,
		UserID:         row.UserID,
		Code:           row.Code,
		Status:         row.Status,
		TotalClicks:    row.TotalClicks,
		TotalReferrals: row.TotalReferrals,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *affiliateRepository) GetByID(ctx context.Context, affiliateID string) (domain.Affiliate, error) {
	var rec affiliateModel
	if err := r.db.WithContext(ctx).Where("affiliate_id = ?", strings.TrimSpace(affiliateID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Affiliate{}, domain.ErrNotFound
		}
		return domain.Affiliate{}, err
	}
	return toDomainAffiliate(rec), nil
}

func (r *affiliateRepository) GetByUserID(ctx context.Context, userID string) (domain.Affiliate, error) {
	var rec affiliateModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", strings.TrimSpace(userID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Affiliate{}, domain.ErrNotFound
		}
		return domain.Affiliate{}, err
	}
	return toDomainAffiliate(rec), nil
}

func (r *affiliateRepository) GetByCode(ctx context.Context, code string) (domain.Affiliate, error) {
	var rec affiliateModel
	if err := r.db.WithContext(ctx).Where("code = ?", strings.TrimSpace(code)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Affiliate{}, domain.ErrNotFound
		}
		return domain.Affiliate{}, err
	}
	return toDomainAffiliate(rec), nil
}

func (r *affiliateRepository) Update(ctx context.Context, row domain.Affiliate) error {
	res := r.db.WithContext(ctx).Model(&affiliateModel{}).Where("affiliate_id = ?", row.AffiliateID).Updates(map[string]any{
		"status":          row.Status,
		"total_clicks":    row.TotalClicks,
		"total_referrals": row.TotalReferrals,
		"updated_at":      row.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *affiliateRepository) IncrementClicks(ctx context.Context, affiliateID string, at time.Time) error {
	return r.increment(ctx, affiliateID, "total_clicks", at)
}

func (r *affiliateRepository) IncrementReferrals(ctx context.Context, affiliateID string, at time.Time) error {
	return r.increment(ctx, affiliateID, "total_referrals", at)
}

func (r *affiliateRepository) increment(ctx context.Context, affiliateID, column string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&affiliateModel{}).Where("affiliate_id = ?", affiliateID).Updates(map[string]any{
		column:       gorm.Expr(column + " + 1"),
		"updated_at": at,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
