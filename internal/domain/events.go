package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
)

// Emitted by this service.
const (
	EventReferralClicked    = "affiliate.referral.clicked"
	EventCommissionRecorded = "affiliate.commission.recorded"
	EventCommissionApproved = "affiliate.commission.approved"
	EventCommissionPaid     = "affiliate.commission.paid"
	EventOrderQuoted        = "checkout.order.quoted"
)

// Consumed from the platform; these advance referrals through their
// lifecycle since registration and ordering happen in other services.
const (
	EventUserRegistered = "user.registered"
	EventOrderPlaced    = "order.placed"
)

func IsCanonicalInputEvent(eventType string) bool {
	switch eventType {
	case EventUserRegistered, EventOrderPlaced:
		return true
	default:
		return false
	}
}

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventReferralClicked, EventCommissionRecorded, EventCommissionApproved, EventCommissionPaid, EventOrderQuoted:
		return true
	default:
		return false
	}
}

func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventOrderQuoted:
		return CanonicalEventClassAnalyticsOnly
	default:
		if IsCanonicalEmittedEvent(eventType) {
			return CanonicalEventClassDomain
		}
		return ""
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	if IsCanonicalEmittedEvent(eventType) {
		return "data.affiliate_id"
	}
	return ""
}
