package domain

import "time"

type ReferralStatus string

const (
	ReferralStatusClicked    ReferralStatus = "clicked"
	ReferralStatusRegistered ReferralStatus = "registered"
	ReferralStatusOrdered    ReferralStatus = "ordered"
	ReferralStatusApproved   ReferralStatus = "approved"
)

type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

type Affiliate struct {
	AffiliateID    string    `json:"affiliate_id"`
	UserID         string    `json:"user_id"`
	Code           string    `json:"code"`
	Status         string    `json:"status"`
	TotalClicks    int       `json:"total_clicks"`
	TotalReferrals int       `json:"total_referrals"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Referral tracks one visitor journey originating from an affiliate's link.
// Only the current status is stored, not the transition history.
type Referral struct {
	ReferralID  string         `json:"referral_id"`
	AffiliateID string         `json:"affiliate_id"`
	Status      ReferralStatus `json:"status"`
	VisitorID   string         `json:"visitor_id"`
	OrderID     string         `json:"order_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Commission is one commission-eligible event. The amount is immutable once
// created; only the status advances.
type Commission struct {
	CommissionID     string           `json:"commission_id"`
	AffiliateID      string           `json:"affiliate_id"`
	ReferralID       string           `json:"referral_id,omitempty"`
	OrderID          string           `json:"order_id"`
	CommissionAmount float64          `json:"commission_amount"`
	Status           CommissionStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CODSettingsID is the fixed key of the singleton settings document.
const CODSettingsID = "default"

type CODSettings struct {
	SettingsID      string    `json:"settings_id"`
	SurchargeAmount float64   `json:"surcharge_amount"`
	IsEnabled       bool      `json:"is_enabled"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultCODSettings is the record materialized on first read and the safe
// fallback when the settings store is unreachable. Checkout pricing must
// always have a value to work with.
func DefaultCODSettings(now time.Time) CODSettings {
	return CODSettings{
		SettingsID:      CODSettingsID,
		SurchargeAmount: 250,
		IsEnabled:       true,
		Description:     "Cash on delivery handling surcharge",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanAdvanceCommission reports whether a commission status transition is a
// legal forward step. pending -> approved -> paid, no regression.
func CanAdvanceCommission(from, to CommissionStatus) bool {
	switch from {
	case CommissionStatusPending:
		return to == CommissionStatusApproved
	case CommissionStatusApproved:
		return to == CommissionStatusPaid
	default:
		return false
	}
}

// CanAdvanceReferral reports whether a referral status transition moves
// forward in the visitor lifecycle.
func CanAdvanceReferral(from, to ReferralStatus) bool {
	return ReferralStatusRank(to) == ReferralStatusRank(from)+1
}

// ReferralStatusRank orders the lifecycle stages; unknown statuses rank
// below clicked.
func ReferralStatusRank(s ReferralStatus) int {
	switch s {
	case ReferralStatusClicked:
		return 0
	case ReferralStatusRegistered:
		return 1
	case ReferralStatusOrdered:
		return 2
	case ReferralStatusApproved:
		return 3
	default:
		return -1
	}
}
