package domain

import "testing"

func TestComputeAffiliateTotalsPartitionsCommissions(t *testing.T) {
	commissions := []Commission{
		{CommissionID: "c1", Status: CommissionStatusPending, CommissionAmount: 100},
		{CommissionID: "c2", Status: CommissionStatusApproved, CommissionAmount: 200},
		{CommissionID: "c3", Status: CommissionStatusPaid, CommissionAmount: 50},
	}
	got := ComputeAffiliateTotals(Affiliate{}, nil, commissions)
	if got.PendingTotal != 100 || got.ApprovedTotal != 200 || got.PaidTotal != 50 {
		t.Fatalf("unexpected partition: %+v", got)
	}
	if got.TotalCommission != 350 {
		t.Fatalf("expected total 350, got %v", got.TotalCommission)
	}
	if got.TotalCommission != got.PendingTotal+got.ApprovedTotal+got.PaidTotal {
		t.Fatalf("total must equal sum of partitions: %+v", got)
	}
}

func TestComputeAffiliateTotalsLogBeatsStaleCounters(t *testing.T) {
	referrals := []Referral{
		{ReferralID: "r1", Status: ReferralStatusClicked},
		{ReferralID: "r2", Status: ReferralStatusRegistered},
		{ReferralID: "r3", Status: ReferralStatusOrdered},
		{ReferralID: "r4", Status: ReferralStatusApproved},
	}
	aff := Affiliate{TotalClicks: 1, TotalReferrals: 0}
	got := ComputeAffiliateTotals(aff, referrals, nil)
	if got.DisplayClicks != 4 {
		t.Fatalf("expected 4 display clicks, got %d", got.DisplayClicks)
	}
	if got.DisplayReferrals != 3 {
		t.Fatalf("expected 3 display referrals, got %d", got.DisplayReferrals)
	}
}

func TestComputeAffiliateTotalsCountersBeatEmptyLog(t *testing.T) {
	aff := Affiliate{TotalClicks: 12, TotalReferrals: 5}
	got := ComputeAffiliateTotals(aff, nil, nil)
	if got.DisplayClicks != 12 || got.DisplayReferrals != 5 {
		t.Fatalf("stored counters are the floor when the log is behind, got %+v", got)
	}
}

func TestComputeAffiliateTotalsReferralsNeverExceedClicks(t *testing.T) {
	referrals := []Referral{
		{Status: ReferralStatusRegistered},
		{Status: ReferralStatusApproved},
	}
	got := ComputeAffiliateTotals(Affiliate{}, referrals, nil)
	if got.DisplayReferrals > got.DisplayClicks {
		t.Fatalf("converted referrals imply clicks: %+v", got)
	}
	if got.DisplayClicks != 2 || got.DisplayReferrals != 2 {
		t.Fatalf("expected 2/2, got %+v", got)
	}
}

func TestComputeAffiliateTotalsIgnoresUnknownStatuses(t *testing.T) {
	referrals := []Referral{{Status: ReferralStatus("bogus")}}
	commissions := []Commission{{Status: CommissionStatus("bogus"), CommissionAmount: 999}}
	got := ComputeAffiliateTotals(Affiliate{}, referrals, commissions)
	if got.DisplayClicks != 0 || got.TotalCommission != 0 {
		t.Fatalf("unknown statuses must not count, got %+v", got)
	}
}
