package domain

// DisplayTotals is the read-time projection an affiliate dashboard renders.
// It is derived from the raw referral/commission event log; the denormalized
// counters on the affiliate record only serve as a non-decreasing floor.
type DisplayTotals struct {
	DisplayClicks    int     `json:"display_clicks"`
	DisplayReferrals int     `json:"display_referrals"`
	PendingTotal     float64 `json:"pending_total"`
	ApprovedTotal    float64 `json:"approved_total"`
	PaidTotal        float64 `json:"paid_total"`
	TotalCommission  float64 `json:"total_commission"`
}

// ComputeAffiliateTotals reconciles the affiliate's stored counters against
// the full referral/commission snapshot for that affiliate. The event log is
// ground truth; whichever source reports more wins, so displayed counts never
// drop below the stored counters and never below what the log proves.
//
// The caller must pass the complete current snapshot, not a page of it.
// Pure: no side effects, no writes back to the affiliate record.
func ComputeAffiliateTotals(affiliate Affiliate, referrals []Referral, commissions []Commission) DisplayTotals {
	var out DisplayTotals
	for _, c := range commissions {
		switch c.Status {
		case CommissionStatusPending:
			out.PendingTotal += c.CommissionAmount
		case CommissionStatusApproved:
			out.ApprovedTotal += c.CommissionAmount
		case CommissionStatusPaid:
			out.PaidTotal += c.CommissionAmount
		}
	}
	out.TotalCommission = out.PendingTotal + out.ApprovedTotal + out.PaidTotal

	actualClicks := 0
	actualReferrals := 0
	for _, r := range referrals {
		switch r.Status {
		case ReferralStatusClicked:
			actualClicks++
		case ReferralStatusRegistered, ReferralStatusOrdered, ReferralStatusApproved:
			// Every converted referral also reached the clicked stage.
			actualClicks++
			actualReferrals++
		}
	}

	out.DisplayClicks = maxInt(actualClicks, affiliate.TotalClicks)
	out.DisplayReferrals = maxInt(actualReferrals, affiliate.TotalReferrals)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
