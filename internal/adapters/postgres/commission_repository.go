package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

func (r *commissionRepository) Create(ctx context.Context, row domain.Commission) error {
	rec := commissionModel{
		CommissionID:     row.CommissionID,
		AffiliateID:      row.AffiliateID,
		ReferralID:       optional(row.ReferralID),
		OrderID:          row.OrderID,
		CommissionAmount: row.CommissionAmount,
		Status:           string(row.Status),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *commissionRepository) GetByID(ctx context.Context, commissionID string) (domain.Commission, error) {
	var rec commissionModel
	if err := r.db.WithContext(ctx).Where("commission_id = ?", strings.TrimSpace(commissionID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Commission{}, domain.ErrNotFound
		}
		return domain.Commission{}, err
	}
	return toDomainCommission(rec), nil
}

func (r *commissionRepository) GetByOrderID(ctx context.Context, orderID string) (domain.Commission, error) {
	var rec commissionModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", strings.TrimSpace(orderID)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Commission{}, domain.ErrNotFound
		}
		return domain.Commission{}, err
	}
	return toDomainCommission(rec), nil
}

func (r *commissionRepository) UpdateStatus(ctx context.Context, commissionID string, status domain.CommissionStatus, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&commissionModel{}).Where("commission_id = ?", commissionID).Updates(map[string]any{
		"status":     string(status),
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

func (r *commissionRepository) ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Commission, error) {
	var rows []commissionModel
	if err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Commission, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainCommission(rec))
	}
	return out, nil
}
