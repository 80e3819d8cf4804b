package postgres

import (
	"gorm.io/gorm"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

// Repositories bundles every persistence port backed by the same database
// handle so bootstrap wires storage in one call.
type Repositories struct {
	Affiliates  ports.AffiliateRepository
	Referrals   ports.ReferralRepository
	Commissions ports.CommissionRepository
	Settings    ports.CODSettingsRepository
	Idempotency ports.IdempotencyRepository
	EventDedup  ports.EventDedupRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Affiliates:  &affiliateRepository{db: db},
		Referrals:   &referralRepository{db: db},
		Commissions: &commissionRepository{db: db},
		Settings:    &codSettingsRepository{db: db},
		Idempotency: &idempotencyRepository{db: db},
		EventDedup:  &eventDedupRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}
