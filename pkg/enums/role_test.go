package enums

import "testing"

func TestParseRoleNormalizesUpstreamVariants(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"BUYER", RoleBuyer},
		{"buyer", RoleBuyer},
		{"USER", RoleBuyer},
		{"user", RoleBuyer},
		{" vendor ", RoleVendor},
		{"ADMIN", RoleAdmin},
		{"Expert", RoleExpert},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestCheckoutStateClassification(t *testing.T) {
	inFlight := []CheckoutState{
		CheckoutStateValidating,
		CheckoutStateCreatingIntent,
		CheckoutStateAwaitingPayment,
		CheckoutStateVerifying,
	}
	for _, s := range inFlight {
		if !s.InFlight() {
			t.Fatalf("expected %s to be in flight", s)
		}
	}

	for _, s := range []CheckoutState{CheckoutStateIdle, CheckoutStateSuccess, CheckoutStateFailed} {
		if s.InFlight() {
			t.Fatalf("expected %s to not be in flight", s)
		}
	}

	if !CheckoutStateFailed.IsTerminal() || !CheckoutStateSuccess.IsTerminal() {
		t.Fatal("expected success and failed to be terminal")
	}
	if CheckoutStateIdle.IsTerminal() {
		t.Fatal("idle must not be terminal")
	}
}
