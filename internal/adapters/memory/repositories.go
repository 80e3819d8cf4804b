package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/domain"
	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/ports"
)

// Repositories is the in-process store used when no database is configured
// and by the unit tests. Same contracts as the postgres adapters.
type Repositories struct {
	Affiliates  *AffiliateRepository
	Referrals   *ReferralRepository
	Commissions *CommissionRepository
	Settings    *CODSettingsRepository
	Idempotency *IdempotencyRepository
	EventDedup  *EventDedupRepository
	Outbox      *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Affiliates:  &AffiliateRepository{byID: map[string]domain.Affiliate{}, byUserID: map[string]string{}, byCode: map[string]string{}},
		Referrals:   &ReferralRepository{byID: map[string]domain.Referral{}, byVisitor: map[string]string{}, byAffiliate: map[string][]string{}},
		Commissions: &CommissionRepository{byID: map[string]domain.Commission{}, byOrderID: map[string]string{}, byAffiliate: map[string][]string{}},
		Settings:    &CODSettingsRepository{},
		Idempotency: &IdempotencyRepository{rows: map[string]ports.IdempotencyRecord{}},
		EventDedup:  &EventDedupRepository{rows: map[string]time.Time{}},
		Outbox:      &OutboxRepository{rows: map[string]ports.OutboxRecord{}},
	}
}

type AffiliateRepository struct {
	mu       sync.Mutex
	byID     map[string]domain.Affiliate
	byUserID map[string]string
	byCode   map[string]string
}

func (r *AffiliateRepository) Create(_ context.Context, row domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.AffiliateID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byUserID[row.UserID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byCode[row.Code]; ok {
		return domain.ErrConflict
	}
	r.byID[row.AffiliateID] = row
	r.byUserID[row.UserID] = row.AffiliateID
	r.byCode[row.Code] = row.AffiliateID
	return nil
}

func (r *AffiliateRepository) GetByID(_ context.Context, affiliateID string) (domain.Affiliate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[strings.TrimSpace(affiliateID)]
	if !ok {
		return domain.Affiliate{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *AffiliateRepository) GetByUserID(_ context.Context, userID string) (domain.Affiliate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return domain.Affiliate{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AffiliateRepository) GetByCode(_ context.Context, code string) (domain.Affiliate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCode[strings.TrimSpace(code)]
	if !ok {
		return domain.Affiliate{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *AffiliateRepository) Update(_ context.Context, row domain.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.AffiliateID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[row.AffiliateID] = row
	r.byUserID[row.UserID] = row.AffiliateID
	r.byCode[row.Code] = row.AffiliateID
	return nil
}

func (r *AffiliateRepository) IncrementClicks(_ context.Context, affiliateID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[affiliateID]
	if !ok {
		return domain.ErrNotFound
	}
	row.TotalClicks++
	row.UpdatedAt = at
	r.byID[affiliateID] = row
	return nil
}

func (r *AffiliateRepository) IncrementReferrals(_ context.Context, affiliateID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[affiliateID]
	if !ok {
		return domain.ErrNotFound
	}
	row.TotalReferrals++
	row.UpdatedAt = at
	r.byID[affiliateID] = row
	return nil
}

type ReferralRepository struct {
	mu          sync.Mutex
	byID        map[string]domain.Referral
	byVisitor   map[string]string
	byAffiliate map[string][]string
}

func (r *ReferralRepository) Create(_ context.Context, row domain.Referral) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.ReferralID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byVisitor[row.VisitorID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.ReferralID] = row
	r.byVisitor[row.VisitorID] = row.ReferralID
	r.byAffiliate[row.AffiliateID] = append(r.byAffiliate[row.AffiliateID], row.ReferralID)
	return nil
}

func (r *ReferralRepository) GetByID(_ context.Context, referralID string) (domain.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[strings.TrimSpace(referralID)]
	if !ok {
		return domain.Referral{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ReferralRepository) GetByVisitorID(_ context.Context, visitorID string) (domain.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byVisitor[strings.TrimSpace(visitorID)]
	if !ok {
		return domain.Referral{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *ReferralRepository) UpdateStatus(_ context.Context, referralID string, status domain.ReferralStatus, orderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[referralID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	if orderID != "" {
		row.OrderID = orderID
	}
	row.UpdatedAt = at
	r.byID[referralID] = row
	return nil
}

func (r *ReferralRepository) ListByAffiliateID(_ context.Context, affiliateID string) ([]domain.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byAffiliate[affiliateID]
	out := make([]domain.Referral, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.byID[id]; ok {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type CommissionRepository struct {
	mu          sync.Mutex
	byID        map[string]domain.Commission
	byOrderID   map[string]string
	byAffiliate map[string][]string
}

func (r *CommissionRepository) Create(_ context.Context, row domain.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.CommissionID]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byOrderID[row.OrderID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.CommissionID] = row
	r.byOrderID[row.OrderID] = row.CommissionID
	r.byAffiliate[row.AffiliateID] = append(r.byAffiliate[row.AffiliateID], row.CommissionID)
	return nil
}

func (r *CommissionRepository) GetByID(_ context.Context, commissionID string) (domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[strings.TrimSpace(commissionID)]
	if !ok {
		return domain.Commission{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *CommissionRepository) GetByOrderID(_ context.Context, orderID string) (domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byOrderID[strings.TrimSpace(orderID)]
	if !ok {
		return domain.Commission{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *CommissionRepository) UpdateStatus(_ context.Context, commissionID string, status domain.CommissionStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[commissionID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.byID[commissionID] = row
	return nil
}

func (r *CommissionRepository) ListByAffiliateID(_ context.Context, affiliateID string) ([]domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byAffiliate[affiliateID]
	out := make([]domain.Commission, 0, len(ids))
	for _, id := range ids {
		if row, ok := r.byID[id]; ok {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type CODSettingsRepository struct {
	mu  sync.Mutex
	row *domain.CODSettings

	// FailReads simulates an unreachable settings store; pricing callers
	// must degrade to the default instead of erroring.
	FailReads bool
}

func (r *CODSettingsRepository) Get(_ context.Context) (domain.CODSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads {
		return domain.CODSettings{}, domain.ErrStorageUnavailable
	}
	if r.row == nil {
		return domain.CODSettings{}, domain.ErrNotFound
	}
	return *r.row, nil
}

func (r *CODSettingsRepository) Upsert(_ context.Context, row domain.CODSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row.SettingsID = domain.CODSettingsID
	r.row = &row
	return nil
}

type IdempotencyRepository struct {
	mu   sync.Mutex
	rows map[string]ports.IdempotencyRecord
}

func (r *IdempotencyRepository) Get(_ context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		return nil, nil
	}
	if !row.ExpiresAt.IsZero() && now.After(row.ExpiresAt) {
		delete(r.rows, key)
		return nil, nil
	}
	cp := row
	cp.ResponseBody = append([]byte(nil), row.ResponseBody...)
	return &cp, nil
}

func (r *IdempotencyRepository) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[key]; ok {
		if row.RequestHash != requestHash {
			return domain.ErrIdempotencyConflict
		}
		return nil
	}
	r.rows[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, ExpiresAt: expiresAt}
	return nil
}

func (r *IdempotencyRepository) Complete(_ context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.rows[key]
	row.ResponseCode = responseCode
	row.ResponseBody = append([]byte(nil), responseBody...)
	if row.ExpiresAt.IsZero() {
		row.ExpiresAt = at.Add(7 * 24 * time.Hour)
	}
	r.rows[key] = row
	return nil
}

type EventDedupRepository struct {
	mu   sync.Mutex
	rows map[string]time.Time
}

func (r *EventDedupRepository) IsDuplicate(_ context.Context, eventID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.rows[eventID]
	if !ok {
		return false, nil
	}
	if now.After(exp) {
		delete(r.rows, eventID)
		return false, nil
	}
	return true, nil
}

func (r *EventDedupRepository) MarkProcessed(_ context.Context, eventID, _ string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[eventID] = expiresAt
	return nil
}

type OutboxRepository struct {
	mu    sync.Mutex
	rows  map[string]ports.OutboxRecord
	order []string
}

func (r *OutboxRepository) Enqueue(_ context.Context, row ports.OutboxRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.RecordID]; ok {
		return domain.ErrConflict
	}
	r.rows[row.RecordID] = row
	r.order = append(r.order, row.RecordID)
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]ports.OutboxRecord, 0, limit)
	for _, id := range r.order {
		row, ok := r.rows[id]
		if !ok || row.SentAt != nil {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, recordID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	row.SentAt = &at
	r.rows[recordID] = row
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, recordID string, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	row.RetryCount++
	row.LastError = errMsg
	row.LastErrorAt = &at
	r.rows[recordID] = row
	return nil
}
