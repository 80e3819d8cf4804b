package domain

import (
	"testing"
	"time"
)

func TestDefaultCODSettings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := DefaultCODSettings(now)
	if got.SettingsID != CODSettingsID {
		t.Fatalf("expected singleton key %q, got %q", CODSettingsID, got.SettingsID)
	}
	if got.SurchargeAmount != 250 || !got.IsEnabled {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps must come from the caller clock: %+v", got)
	}
}

func TestCanAdvanceCommission(t *testing.T) {
	cases := []struct {
		from, to CommissionStatus
		want     bool
	}{
		{CommissionStatusPending, CommissionStatusApproved, true},
		{CommissionStatusApproved, CommissionStatusPaid, true},
		{CommissionStatusPending, CommissionStatusPaid, false},
		{CommissionStatusApproved, CommissionStatusPending, false},
		{CommissionStatusPaid, CommissionStatusApproved, false},
		{CommissionStatusPaid, CommissionStatusPaid, false},
	}
	for _, tc := range cases {
		if got := CanAdvanceCommission(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanAdvanceCommission(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanAdvanceReferral(t *testing.T) {
	if !CanAdvanceReferral(ReferralStatusClicked, ReferralStatusRegistered) {
		t.Fatalf("clicked -> registered must advance")
	}
	if CanAdvanceReferral(ReferralStatusClicked, ReferralStatusOrdered) {
		t.Fatalf("stage skipping is not a single forward step")
	}
	if CanAdvanceReferral(ReferralStatusApproved, ReferralStatusClicked) {
		t.Fatalf("regression must be rejected")
	}
}
