package application

import (
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

type Config struct {
	ServiceName          string
	PublicBaseURL        string
	OverviewCacheTTL     time.Duration
	IdempotencyTTL       time.Duration
	EventDedupTTL        time.Duration
	OutboxFlushBatchSize int
}

type Actor struct {
	SubjectID      string
	Role           string
	RequestID      string
	IdempotencyKey string
}

type TrackClickInput struct {
	Code      string
	VisitorID string
}

type TrackClickResult struct {
	RedirectURL string
	VisitorID   string
	AffiliateID string
	ReferralID  string
}

type Overview struct {
	AffiliateID      string
	DisplayClicks    int
	DisplayReferrals int
	PendingTotal     float64
	ApprovedTotal    float64
	PaidTotal        float64
	TotalCommission  float64
}

type QuoteOrderInput struct {
	Subtotal      float64
	ShippingFee   float64
	PaymentMethod string
	AffiliateID   string
}

type RecordCommissionInput struct {
	AffiliateID      string
	ReferralID       string
	OrderID          string
	CommissionAmount float64
}

type UpdateCODSettingsInput struct {
	SurchargeAmount *float64
	IsEnabled       *bool
	Description     *string
}

type Service struct {
	cfg Config

	affiliates  ports.AffiliateRepository
	referrals   ports.ReferralRepository
	commissions ports.CommissionRepository
	settings    ports.CODSettingsRepository
	idempotency ports.IdempotencyRepository
	eventDedup  ports.EventDedupRepository
	outbox      ports.OutboxRepository
	cache       ports.Cache

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Affiliates  ports.AffiliateRepository
	Referrals   ports.ReferralRepository
	Commissions ports.CommissionRepository
	Settings    ports.CODSettingsRepository
	Idempotency ports.IdempotencyRepository
	EventDedup  ports.EventDedupRepository
	Outbox      ports.OutboxRepository
	Cache       ports.Cache
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "M90-Affiliate-Pricing-Service"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "https://shop.platform.com"
	}
	if cfg.OverviewCacheTTL <= 0 {
		cfg.OverviewCacheTTL = 30 * time.Second
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	if cfg.OutboxFlushBatchSize <= 0 {
		cfg.OutboxFlushBatchSize = 100
	}
	return &Service{
		cfg:         cfg,
		affiliates:  deps.Affiliates,
		referrals:   deps.Referrals,
		commissions: deps.Commissions,
		settings:    deps.Settings,
		idempotency: deps.Idempotency,
		eventDedup:  deps.EventDedup,
		outbox:      deps.Outbox,
		cache:       deps.Cache,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}
