package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type eventDedupRepository struct {
	db *gorm.DB
}

func (r *eventDedupRepository) IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error) {
	var rec eventDedupModel
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if now.After(rec.ExpiresAt) {
		_ = r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&eventDedupModel{}).Error
		return false, nil
	}
	return true, nil
}

func (r *eventDedupRepository) MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error {
	rec := eventDedupModel{EventID: eventID, EventType: eventType, ExpiresAt: expiresAt}
	err := r.db.WithContext(ctx).Create(&rec).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}
