package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/api/validators"
	"github.com/praveen037/agriconnect/internal/approvals"
	"github.com/praveen037/agriconnect/pkg/logger"
)

// AdminPending lists vendor or expert accounts awaiting a decision.
func AdminPending(svc *approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := approvals.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Pending(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

// AdminDecide approves or rejects one pending account.
func AdminDecide(svc *approvals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := approvals.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload decisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Decide(r.Context(), kind, chi.URLParam(r, "accountId"), payload.Approve); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"approved": payload.Approve})
	}
}
