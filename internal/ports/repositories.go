package ports

import (
	"context"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
)

type AffiliateRepository interface {
	Create(ctx context.Context, row domain.Affiliate) error
	GetByID(ctx context.Context, affiliateID string) (domain.Affiliate, error)
	GetByUserID(ctx context.Context, userID string) (domain.Affiliate, error)
	GetByCode(ctx context.Context, code string) (domain.Affiliate, error)
	Update(ctx context.Context, row domain.Affiliate) error
	IncrementClicks(ctx context.Context, affiliateID string, at time.Time) error
	IncrementReferrals(ctx context.Context, affiliateID string, at time.Time) error
}

type ReferralRepository interface {
	Create(ctx context.Context, row domain.Referral) error
	GetByID(ctx context.Context, referralID string) (domain.Referral, error)
	GetByVisitorID(ctx context.Context, visitorID string) (domain.Referral, error)
	UpdateStatus(ctx context.Context, referralID string, status domain.ReferralStatus, orderID string, at time.Time) error
	ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Referral, error)
}

type CommissionRepository interface {
	Create(ctx context.Context, row domain.Commission) error
	GetByID(ctx context.Context, commissionID string) (domain.Commission, error)
	GetByOrderID(ctx context.Context, orderID string) (domain.Commission, error)
	UpdateStatus(ctx context.Context, commissionID string, status domain.CommissionStatus, at time.Time) error
	ListByAffiliateID(ctx context.Context, affiliateID string) ([]domain.Commission, error)
}

// CODSettingsRepository stores the singleton settings document keyed by
// domain.CODSettingsID. Upsert is idempotent-by-key; concurrent default
// materialization resolves to last writer wins.
type CODSettingsRepository interface {
	Get(ctx context.Context) (domain.CODSettings, error)
	Upsert(ctx context.Context, row domain.CODSettings) error
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
}

type OutboxRecord struct {
	RecordID     string
	EventType    string
	EventClass   string
	PartitionKey string
	Payload      []byte
	TraceID      string
	CreatedAt    time.Time
	SentAt       *time.Time
	RetryCount   int
	LastError    string
	LastErrorAt  *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, recordID string, at time.Time) error
	MarkFailed(ctx context.Context, recordID string, errMsg string, at time.Time) error
}
