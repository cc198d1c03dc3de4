package checkout

import (
	"strings"

	"github.com/praveen037/agriconnect/pkg/config"
)

// ShippingInfo is the delivery form submitted at the start of a checkout
// attempt.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Validate checks every field and returns the full map of violations, keyed
// by field name, so the form can surface all problems in one round trip.
func (s ShippingInfo) Validate(cfg config.CheckoutConfig) map[string]string {
	problems := map[string]string{}

	if strings.TrimSpace(s.Name) == "" {
		problems["name"] = "name is required"
	}
	if strings.TrimSpace(s.Address) == "" {
		problems["address"] = "address is required"
	}
	if strings.TrimSpace(s.City) == "" {
		problems["city"] = "city is required"
	}

	if strings.TrimSpace(s.Phone) == "" {
		problems["phone"] = "phone number is required"
	} else if msg := validatePhone(s.Phone, cfg); msg != "" {
		problems["phone"] = msg
	}

	if strings.TrimSpace(s.Email) == "" {
		problems["email"] = "email is required"
	} else if !plausibleEmail(s.Email) {
		problems["email"] = "email address is not valid"
	}

	// Zip is optional; only its shape is checked when present.
	if zip := strings.TrimSpace(s.Zip); zip != "" {
		if len(zip) != cfg.ZipLength || !allDigits(zip) {
			problems["zip"] = "zip code is not valid"
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// validatePhone strips formatting characters before checking length and the
// allowed leading digit, so "98765-43210" style input is accepted. A country
// code is not; the form asks for the national number.
func validatePhone(raw string, cfg config.CheckoutConfig) string {
	digits := digitsOf(raw)
	if len(digits) != cfg.PhoneLength {
		return "phone number is not valid"
	}
	if !strings.ContainsRune(cfg.PhoneLeadDigits, rune(digits[0])) {
		return "phone number is not valid"
	}
	return ""
}

// plausibleEmail checks the minimal local@domain shape; deliverability is
// the core backend's problem.
func plausibleEmail(raw string) bool {
	email := strings.TrimSpace(raw)
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	if domain == "" || strings.ContainsAny(email, " \t") {
		return false
	}
	return true
}

func digitsOf(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}
