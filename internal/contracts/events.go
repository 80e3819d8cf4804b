package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	EventClass       string          `json:"event_class,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type ReferralClickedPayload struct {
	AffiliateID string `json:"affiliate_id"`
	ReferralID  string `json:"referral_id"`
	VisitorID   string `json:"visitor_id"`
	ClickedAt   string `json:"clicked_at"`
}

type CommissionRecordedPayload struct {
	AffiliateID  string  `json:"affiliate_id"`
	CommissionID string  `json:"commission_id"`
	ReferralID   string  `json:"referral_id,omitempty"`
	OrderID      string  `json:"order_id"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	RecordedAt   string  `json:"recorded_at"`
}

type CommissionStatusPayload struct {
	AffiliateID  string  `json:"affiliate_id"`
	CommissionID string  `json:"commission_id"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	ChangedAt    string  `json:"changed_at"`
}

type OrderQuotedPayload struct {
	AffiliateID  string  `json:"affiliate_id,omitempty"`
	Subtotal     float64 `json:"subtotal"`
	ShippingFee  float64 `json:"shipping_fee"`
	CODSurcharge float64 `json:"cod_surcharge"`
	Total        float64 `json:"total"`
	QuotedAt     string  `json:"quoted_at"`
}

// Inbound payloads from other platform services.

type UserRegisteredPayload struct {
	UserID     string `json:"user_id"`
	VisitorID  string `json:"visitor_id,omitempty"`
	ReferralID string `json:"referral_id,omitempty"`
}

type OrderPlacedPayload struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	ReferralID string  `json:"referral_id,omitempty"`
	VisitorID  string  `json:"visitor_id,omitempty"`
	Total      float64 `json:"total"`
}
