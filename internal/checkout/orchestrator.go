package checkout

import (
	"context"
	stdErrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveen037/agriconnect/internal/cart"
	"github.com/praveen037/agriconnect/internal/session"
	"github.com/praveen037/agriconnect/pkg/config"
	"github.com/praveen037/agriconnect/pkg/db/models"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/enums"
	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/metrics"
	"github.com/praveen037/agriconnect/pkg/razorpay"
	"github.com/praveen037/agriconnect/pkg/types"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type identitySource interface {
	Current(ctx context.Context, sessionID string) (*session.Identity, error)
}

type cartSource interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type paymentAPI interface {
	CreateOrder(ctx context.Context, req upstream.CreateOrderRequest) (*upstream.PaymentIntent, error)
	VerifyPayment(ctx context.Context, req upstream.VerifyPaymentRequest) (*upstream.VerifyPaymentResponse, error)
}

type recorder interface {
	SaveSummary(ctx context.Context, summary *models.OrderSummary) error
	RecordAttempt(ctx context.Context, attempt *models.CheckoutAttempt) error
}

// attempt is the per-session checkout state machine. All fields are guarded
// by the orchestrator mutex.
type attempt struct {
	state       enums.CheckoutState
	failures    int
	failureCode pkgerrors.Code

	userID      string
	shipping    ShippingInfo
	items       []types.OrderLine
	total       decimal.Decimal
	amountMinor int64
	intent      *upstream.PaymentIntent
}

// Orchestrator drives the three-phase payment protocol: validate the attempt
// locally, create a provider order through the core API, then verify the
// widget callback. It owns one state machine per session; all business
// decisions about the order itself stay upstream.
type Orchestrator struct {
	mu       sync.Mutex
	attempts map[string]*attempt

	sessions identitySource
	carts    cartSource
	api      paymentAPI
	recs     recorder

	cfg   config.CheckoutConfig
	rzp   config.RazorpayConfig
	stats *metrics.CheckoutMetrics
	logg  *logger.Logger
	now   func() time.Time
}

func NewOrchestrator(
	sessions identitySource,
	carts cartSource,
	api paymentAPI,
	recs recorder,
	cfg config.CheckoutConfig,
	rzp config.RazorpayConfig,
	stats *metrics.CheckoutMetrics,
	logg *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		attempts: map[string]*attempt{},
		sessions: sessions,
		carts:    carts,
		api:      api,
		recs:     recs,
		cfg:      cfg,
		rzp:      rzp,
		stats:    stats,
		logg:     logg,
		now:      time.Now,
	}
}

// BeginResult hands the browser everything it needs to open the payment
// widget.
type BeginResult struct {
	State   enums.CheckoutState       `json:"state"`
	Intent  *upstream.PaymentIntent   `json:"intent"`
	Options *razorpay.CheckoutOptions `json:"options"`
}

// Snapshot is the externally visible view of a session's attempt.
type Snapshot struct {
	State       enums.CheckoutState `json:"state"`
	Failures    int                 `json:"failures"`
	FailureCode pkgerrors.Code      `json:"failure_code,omitempty"`
}

// Begin runs the validation and intent-creation phases. A session with an
// attempt already in flight is rejected; a session at the consecutive
// failure cap stays blocked until Reset.
func (o *Orchestrator) Begin(ctx context.Context, sessionID string, shipping ShippingInfo) (*BeginResult, error) {
	o.mu.Lock()
	a := o.ensure(sessionID)
	if a.state.InFlight() {
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress").
			WithDetails(map[string]string{"state": a.state.String()})
	}
	if a.failures >= o.cfg.MaxCreateRetries {
		o.mu.Unlock()
		o.stats.IncBlocked()
		return nil, pkgerrors.New(pkgerrors.CodeTooManyAttempts, "checkout blocked after repeated failures")
	}
	a.state = enums.CheckoutStateValidating
	a.intent = nil
	o.mu.Unlock()

	validated := o.now()
	if problems := shipping.Validate(o.cfg); problems != nil {
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping details are invalid").
			WithDetails(problems)
	}

	identity, err := o.sessions.Current(ctx, sessionID)
	if err != nil {
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, err
	}

	crt, err := o.carts.Get(ctx, sessionID)
	if err != nil {
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, err
	}
	if crt.IsEmpty() {
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	amountMinor := crt.TotalMinor()
	if amountMinor < o.cfg.MinAmountMinor {
		// Rejected before any network call is made.
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, pkgerrors.New(pkgerrors.CodeAmountTooLow, "order total below payment minimum").
			WithDetails(map[string]int64{
				"amount_minor":  amountMinor,
				"minimum_minor": o.cfg.MinAmountMinor,
			})
	}
	o.stats.ObservePhase("validate", o.now().Sub(validated))

	o.mu.Lock()
	a.state = enums.CheckoutStateCreatingIntent
	o.mu.Unlock()

	req := upstream.CreateOrderRequest{
		UserID: identity.ID,
		Amount: amountMinor,
		Items:  orderItems(crt),
	}

	createCtx, cancel := withTimeout(ctx, o.cfg.CreateTimeout)
	started := o.now()
	intent, err := o.api.CreateOrder(createCtx, req)
	cancel()
	o.stats.ObservePhase("create_intent", o.now().Sub(started))

	if err != nil {
		coded := classifyCreateError(err)
		o.mu.Lock()
		a.state = enums.CheckoutStateFailed
		a.failures++
		a.failureCode = coded.Code()
		failures := a.failures
		o.mu.Unlock()

		o.recordAttempt(ctx, sessionID, identity.ID, amountMinor, enums.CheckoutStateFailed, coded.Code())
		o.stats.IncOutcome("create_failed")
		o.logg.Error(o.logg.WithSessionID(ctx, sessionID), "payment order creation failed", err)
		if failures >= o.cfg.MaxCreateRetries {
			o.logg.Warn(o.logg.WithSessionID(ctx, sessionID), "checkout attempt cap reached")
		}
		return nil, coded
	}

	currency := intent.Currency
	if strings.TrimSpace(currency) == "" {
		currency = o.cfg.Currency
	}
	options, err := razorpay.BuildOptions(o.rzp, intent.ID, intent.Amount, currency, razorpay.Prefill{
		Name:    strings.TrimSpace(shipping.Name),
		Email:   strings.TrimSpace(shipping.Email),
		Contact: digitsOf(shipping.Phone),
	})
	if err != nil {
		o.settle(sessionID, enums.CheckoutStateIdle)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building payment widget options")
	}

	o.mu.Lock()
	a.state = enums.CheckoutStateAwaitingPayment
	a.failures = 0
	a.failureCode = ""
	a.userID = identity.ID
	a.shipping = shipping
	a.items = orderLines(crt)
	a.total = crt.Total()
	a.amountMinor = amountMinor
	a.intent = intent
	o.mu.Unlock()

	o.recordAttempt(ctx, sessionID, identity.ID, amountMinor, enums.CheckoutStateAwaitingPayment, "")
	return &BeginResult{
		State:   enums.CheckoutStateAwaitingPayment,
		Intent:  intent,
		Options: options,
	}, nil
}

// Confirm forwards the widget callback to the core API for signature
// verification. Only a verified payment clears the cart; any failure leaves
// it intact so the user can retry.
func (o *Orchestrator) Confirm(ctx context.Context, sessionID string, payload razorpay.CallbackPayload) (*models.OrderSummary, error) {
	o.mu.Lock()
	a := o.ensure(sessionID)
	if a.state != enums.CheckoutStateAwaitingPayment {
		state := a.state
		o.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment awaiting confirmation").
			WithDetails(map[string]string{"state": state.String()})
	}
	if err := payload.Validate(); err != nil {
		// The attempt stays open; the real callback may still arrive.
		o.mu.Unlock()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment callback is incomplete")
	}
	a.state = enums.CheckoutStateVerifying
	userID := a.userID
	amountMinor := a.amountMinor
	o.mu.Unlock()

	verifyCtx, cancel := withTimeout(ctx, o.cfg.VerifyTimeout)
	started := o.now()
	resp, err := o.api.VerifyPayment(verifyCtx, upstream.VerifyPaymentRequest{
		RazorpayOrderID:   payload.RazorpayOrderID,
		RazorpayPaymentID: payload.RazorpayPaymentID,
		RazorpaySignature: payload.RazorpaySignature,
	})
	cancel()
	o.stats.ObservePhase("verify", o.now().Sub(started))

	if err != nil || !resp.Verified() {
		o.mu.Lock()
		a.state = enums.CheckoutStateFailed
		a.failureCode = pkgerrors.CodePaymentVerify
		o.mu.Unlock()

		o.recordAttempt(ctx, sessionID, userID, amountMinor, enums.CheckoutStateFailed, pkgerrors.CodePaymentVerify)
		o.stats.IncOutcome("verify_failed")
		if err != nil {
			o.logg.Error(o.logg.WithSessionID(ctx, sessionID), "payment verification failed", err)
			return nil, pkgerrors.Wrap(pkgerrors.CodePaymentVerify, err, "payment could not be verified")
		}
		o.logg.Warn(o.logg.WithSessionID(ctx, sessionID), "payment signature rejected by core api")
		return nil, pkgerrors.New(pkgerrors.CodePaymentVerify, "payment signature rejected")
	}

	o.mu.Lock()
	summary := &models.OrderSummary{
		UserID:          a.userID,
		SessionID:       sessionID,
		Items:           a.items,
		TotalAmount:     a.total,
		AmountMinor:     a.amountMinor,
		Currency:        intentCurrency(a.intent, o.cfg),
		UpstreamOrderID: localOrderID(a.intent),
		ProviderOrderID: payload.RazorpayOrderID,
		ProviderPayment: payload.RazorpayPaymentID,
		ShippingName:    a.shipping.Name,
		ShippingAddress: a.shipping.Address,
		ShippingCity:    a.shipping.City,
	}
	a.state = enums.CheckoutStateSuccess
	a.failures = 0
	a.failureCode = ""
	o.mu.Unlock()

	// The payment is captured at this point; local bookkeeping problems are
	// logged, not surfaced as checkout failures.
	if err := o.carts.Clear(ctx, sessionID); err != nil {
		o.logg.Error(o.logg.WithSessionID(ctx, sessionID), "clearing cart after verified payment", err)
	}
	if err := o.recs.SaveSummary(ctx, summary); err != nil {
		o.logg.Error(o.logg.WithSessionID(ctx, sessionID), "saving order summary", err)
	}
	o.recordAttempt(ctx, sessionID, userID, amountMinor, enums.CheckoutStateSuccess, "")
	o.stats.IncOutcome("success")
	return summary, nil
}

// Cancel handles widget dismissal: the pending intent is abandoned and the
// attempt returns to idle with the cart untouched. Cancelling with nothing
// pending is a no-op.
func (o *Orchestrator) Cancel(ctx context.Context, sessionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, ok := o.attempts[sessionID]
	if !ok {
		return nil
	}
	switch a.state {
	case enums.CheckoutStateAwaitingPayment, enums.CheckoutStateFailed, enums.CheckoutStateSuccess, enums.CheckoutStateIdle:
		a.state = enums.CheckoutStateIdle
		a.intent = nil
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel while a backend call is in flight").
			WithDetails(map[string]string{"state": a.state.String()})
	}
}

// Reset discards the session's attempt entirely, including the consecutive
// failure counter. This is the fresh start a page reload gives the user.
func (o *Orchestrator) Reset(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.attempts, sessionID)
}

// State returns the session's current attempt view.
func (o *Orchestrator) State(sessionID string) Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, ok := o.attempts[sessionID]
	if !ok {
		return Snapshot{State: enums.CheckoutStateIdle}
	}
	return Snapshot{State: a.state, Failures: a.failures, FailureCode: a.failureCode}
}

func (o *Orchestrator) ensure(sessionID string) *attempt {
	a, ok := o.attempts[sessionID]
	if !ok {
		a = &attempt{state: enums.CheckoutStateIdle}
		o.attempts[sessionID] = a
	}
	return a
}

func (o *Orchestrator) settle(sessionID string, state enums.CheckoutState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a, ok := o.attempts[sessionID]; ok {
		a.state = state
	}
}

func (o *Orchestrator) recordAttempt(ctx context.Context, sessionID, userID string, amountMinor int64, state enums.CheckoutState, code pkgerrors.Code) {
	row := &models.CheckoutAttempt{
		SessionID:   sessionID,
		UserID:      userID,
		AmountMinor: amountMinor,
		State:       state.String(),
		FailureCode: string(code),
	}
	if err := o.recs.RecordAttempt(ctx, row); err != nil {
		o.logg.Warn(o.logg.WithSessionID(ctx, sessionID), "recording checkout attempt failed")
	}
}

// withTimeout leaves the parent deadline alone when no timeout is configured.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func classifyCreateError(err error) *pkgerrors.Error {
	var ue *upstream.Error
	if stdErrors.As(err, &ue) {
		if ue.Conflict() {
			return pkgerrors.Wrap(pkgerrors.CodeStockOrPriceDrift, err, "stock or pricing changed since the cart was built")
		}
		if ue.Offline() {
			return pkgerrors.Wrap(pkgerrors.CodeOrderCreation, err, "payment service unreachable")
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeOrderCreation, err, "creating payment order")
}

func orderItems(crt *cart.Cart) []upstream.OrderItem {
	items := make([]upstream.OrderItem, 0, len(crt.Lines))
	for _, line := range crt.Lines {
		items = append(items, upstream.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.EffectivePrice().InexactFloat64(),
		})
	}
	return items
}

func orderLines(crt *cart.Cart) []types.OrderLine {
	lines := make([]types.OrderLine, 0, len(crt.Lines))
	for _, line := range crt.Lines {
		lines = append(lines, types.OrderLine{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			UnitPrice: line.Product.EffectivePrice(),
			Quantity:  line.Quantity,
			ImageRef:  line.Product.ImageRef,
		})
	}
	return lines
}

func intentCurrency(intent *upstream.PaymentIntent, cfg config.CheckoutConfig) string {
	if intent != nil && strings.TrimSpace(intent.Currency) != "" {
		return intent.Currency
	}
	return cfg.Currency
}

func localOrderID(intent *upstream.PaymentIntent) string {
	if intent == nil {
		return ""
	}
	if intent.LocalOrderID != "" {
		return intent.LocalOrderID
	}
	return intent.ID
}
