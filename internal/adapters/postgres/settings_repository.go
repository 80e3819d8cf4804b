package postgres

import (
	"context"
	"errors"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type codSettingsRepository struct {
	db *gorm.DB
}

func (r *codSettingsRepository) Get(ctx context.Context) (domain.CODSettings, error) {
	var rec codSettingsModel
	if err := r.db.WithContext(ctx).Where("settings_id = ?", domain.CODSettingsID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CODSettings{}, domain.ErrNotFound
		}
		return domain.CODSettings{}, err
	}
	return toDomainSettings(rec), nil
}

// Upsert writes the singleton row. Concurrent first-read materialization is
// resolved here: last writer wins on the fixed key.
func (r *codSettingsRepository) Upsert(ctx context.Context, row domain.CODSettings) error {
	rec := codSettingsModel{
		SettingsID:      domain.CODSettingsID,
		SurchargeAmount: row.SurchargeAmount,
		IsEnabled:       row.IsEnabled,
		Description:     row.Description,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "settings_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"surcharge_amount", "is_enabled", "description", "updated_at",
		}),
	}).Create(&rec).Error
}
