package application

import (
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/adapters/memory"
)

func newTestService() (*Service, *memory.Repositories) {
	repos := memory.NewRepositories()
	svc := NewService(Dependencies{
		Affiliates:  repos.Affiliates,
		Referrals:   repos.Referrals,
		Commissions: repos.Commissions,
		Settings:    repos.Settings,
		Idempotency: repos.Idempotency,
		EventDedup:  repos.EventDedup,
		Outbox:      repos.Outbox,
	})
	return svc, repos
}

func adminActor(key string) Actor {
	return Actor{SubjectID: "admin-1", Role: "admin", IdempotencyKey: key}
}

func affiliateActor(userID string) Actor {
	return Actor{SubjectID: userID, Role: "affiliate"}
}
