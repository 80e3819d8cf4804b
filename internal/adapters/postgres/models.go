package postgres

import "time"

type affiliateModel struct {
	AffiliateID    string    `gorm:"column:affiliate_id;primaryKey"`
	UserID         string    `gorm:"column:user_id"`
	Code           string    `gorm:"column:code"`
	Status         string    `gorm:"column:status"`
	TotalClicks    int       `gorm:"column:total_clicks"`
	TotalReferrals int       `gorm:"column:total_referrals"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (affiliateModel) TableName() string { return "affiliates" }

type referralModel struct {
	ReferralID  string    `gorm:"column:referral_id;primaryKey"`
	AffiliateID string    `gorm:"column:affiliate_id"`
	Status      string    `gorm:"column:status"`
	VisitorID   string    `gorm:"column:visitor_id"`
	OrderID     *string   `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (referralModel) TableName() string { return "referrals" }

type commissionModel struct {
	CommissionID     string    `gorm:"column:commission_id;primaryKey"`
	AffiliateID      string    `gorm:"column:affiliate_id"`
	ReferralID       *string   `gorm:"column:referral_id"`
	OrderID          string    `gorm:"column:order_id"`
	CommissionAmount float64   `gorm:"column:commission_amount"`
	Status           string    `gorm:"column:status"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (commissionModel) TableName() string { return "commissions" }

type codSettingsModel struct {
	SettingsID      string    `gorm:"column:settings_id;primaryKey"`
	SurchargeAmount float64   `gorm:"column:surcharge_amount"`
	IsEnabled       bool      `gorm:"column:is_enabled"`
	Description     string    `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (codSettingsModel) TableName() string { return "cod_settings" }

type outboxModel struct {
	RecordID     string     `gorm:"column:record_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	EventClass   string     `gorm:"column:event_class"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	TraceID      string     `gorm:"column:trace_id"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "affiliate_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "affiliate_idempotency" }

type eventDedupModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	EventType string    `gorm:"column:event_type"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (eventDedupModel) TableName() string { return "affiliate_event_dedup" }
