package razorpay

import (
	"testing"

	"github.com/praveen037/agriconnect/pkg/config"
)

func TestBuildOptions(t *testing.T) {
	cfg := config.RazorpayConfig{
		KeyID:       "rzp_test_key",
		DisplayName: "AgriConnect",
		Description: "Order Payment",
		ThemeColor:  "#4CAF50",
	}

	opts, err := BuildOptions(cfg, "order_abc", 40000, "INR", Prefill{Name: "Asha", Email: "a@b.in", Contact: "9876543210"})
	if err != nil {
		t.Fatalf("build options: %v", err)
	}
	if opts.Key != "rzp_test_key" || opts.OrderID != "order_abc" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Amount != 40000 || opts.Currency != "INR" {
		t.Fatalf("amount/currency not preserved: %+v", opts)
	}
	if opts.Prefill.Contact != "9876543210" {
		t.Fatalf("prefill not preserved: %+v", opts.Prefill)
	}
}

func TestBuildOptionsRejectsMissingInputs(t *testing.T) {
	cfg := config.RazorpayConfig{KeyID: "rzp_test_key"}

	if _, err := BuildOptions(config.RazorpayConfig{}, "order_abc", 100, "INR", Prefill{}); err == nil {
		t.Fatal("expected missing key to be rejected")
	}
	if _, err := BuildOptions(cfg, "", 100, "INR", Prefill{}); err == nil {
		t.Fatal("expected missing order id to be rejected")
	}
	if _, err := BuildOptions(cfg, "order_abc", 0, "INR", Prefill{}); err == nil {
		t.Fatal("expected zero amount to be rejected")
	}
}

func TestCallbackPayloadValidate(t *testing.T) {
	valid := CallbackPayload{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_def",
		RazorpaySignature: "sig",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	missing := valid
	missing.RazorpaySignature = " "
	if err := missing.Validate(); err == nil {
		t.Fatal("expected missing signature to be rejected")
	}
}
