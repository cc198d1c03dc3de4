package enums

import "fmt"

// CheckoutState tracks where a checkout attempt sits in the payment protocol.
type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "idle"
	CheckoutStateValidating      CheckoutState = "validating"
	CheckoutStateCreatingIntent  CheckoutState = "creating_intent"
	CheckoutStateAwaitingPayment CheckoutState = "awaiting_external_payment"
	CheckoutStateVerifying       CheckoutState = "verifying"
	CheckoutStateSuccess         CheckoutState = "success"
	CheckoutStateFailed          CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateCreatingIntent,
	CheckoutStateAwaitingPayment,
	CheckoutStateVerifying,
	CheckoutStateSuccess,
	CheckoutStateFailed,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state requires a user action before
// another checkout attempt may start.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSuccess || s == CheckoutStateFailed
}

// InFlight reports whether a backend call or the external widget currently
// owns the attempt; re-entrant starts are rejected while in flight.
func (s CheckoutState) InFlight() bool {
	switch s {
	case CheckoutStateValidating, CheckoutStateCreatingIntent, CheckoutStateAwaitingPayment, CheckoutStateVerifying:
		return true
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
