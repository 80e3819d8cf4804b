package postgres

import (
	"context"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, record ports.OutboxRecord) error {
	rec := outboxModel{
		RecordID:     record.RecordID,
		EventType:    record.EventType,
		EventClass:   record.EventClass,
		PartitionKey: record.PartitionKey,
		Payload:      string(record.Payload),
		TraceID:      record.TraceID,
		CreatedAt:    record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).Where("sent_at IS NULL").Order("created_at asc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, rec := range rows {
		row := ports.OutboxRecord{
			RecordID:     rec.RecordID,
			EventType:    rec.EventType,
			EventClass:   rec.EventClass,
			PartitionKey: rec.PartitionKey,
			Payload:      []byte(rec.Payload),
			TraceID:      rec.TraceID,
			CreatedAt:    rec.CreatedAt,
			SentAt:       rec.SentAt,
			RetryCount:   rec.RetryCount,
			LastErrorAt:  rec.LastErrorAt,
		}
		if rec.LastError != nil {
			row.LastError = *rec.LastError
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, recordID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&outboxModel{}).Where("record_id = ?", recordID).Update("sent_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, recordID string, errMsg string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).Where("record_id = ?", recordID).Updates(map[string]any{
		"retry_count":   gorm.Expr("retry_count + 1"),
		"last_error":    errMsg,
		"last_error_at": at,
	}).Error
}
