package controllers

import (
	"net/http"

	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/internal/orders"
	"github.com/praveen037/agriconnect/pkg/logger"
)

// MyOrders lists the buyer's order history as held by the core API.
func MyOrders(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.History(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
