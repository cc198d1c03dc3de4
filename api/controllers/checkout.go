package controllers

import (
	"net/http"

	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/api/validators"
	checkoutsvc "github.com/praveen037/agriconnect/internal/checkout"
	"github.com/praveen037/agriconnect/internal/orders"
	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/razorpay"
)

type checkoutBeginRequest struct {
	Shipping checkoutsvc.ShippingInfo `json:"shipping"`
}

// CheckoutBegin validates the attempt and creates the provider order. The
// response carries the widget options the browser opens the payment UI with.
func CheckoutBegin(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutBeginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := orch.Begin(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Shipping)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutConfirm verifies the widget callback and, on success, returns the
// confirmation summary.
func CheckoutConfirm(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload razorpay.CallbackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := orch.Confirm(r.Context(), middleware.SessionIDFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CheckoutCancel abandons the pending payment after widget dismissal.
func CheckoutCancel(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orch.Cancel(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orch.State(middleware.SessionIDFromContext(r.Context())))
	}
}

// CheckoutState reports where the session's attempt currently sits.
func CheckoutState(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, orch.State(middleware.SessionIDFromContext(r.Context())))
	}
}

// CheckoutReset discards the attempt and its failure counter, matching what
// a fresh page load gives the user.
func CheckoutReset(orch *checkoutsvc.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orch.Reset(middleware.SessionIDFromContext(r.Context()))
		responses.WriteSuccess(w, orch.State(middleware.SessionIDFromContext(r.Context())))
	}
}

// CheckoutConfirmation returns the most recent verified order for the
// session, for the post-payment confirmation screen.
func CheckoutConfirmation(repo *orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := repo.LatestSummary(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
