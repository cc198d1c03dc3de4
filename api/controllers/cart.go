package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/api/validators"
	cartsvc "github.com/praveen037/agriconnect/internal/cart"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/logger"
)

type cartResponse struct {
	Lines []cartsvc.Line  `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Empty bool            `json:"empty"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []cartsvc.Line{}
	}
	return cartResponse{Lines: lines, Total: c.Total(), Empty: c.IsEmpty()}
}

// CartView returns the session's cart with its running total.
func CartView(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

type cartAddRequest struct {
	Product  cartsvc.ProductRef `json:"product" validate:"required"`
	Quantity int                `json:"quantity"`
}

// CartAdd merges the product into the session's cart.
func CartAdd(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Product.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		c, err := store.Add(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Product, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

type cartQuantityRequest struct {
	// No lower bound here; the store clamps out-of-range quantities.
	Quantity int `json:"quantity"`
}

// CartSetQuantity replaces one line's quantity, clamped to available stock.
func CartSetQuantity(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.SetQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "productId"), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

// CartRemove deletes one line; removing an absent product succeeds quietly.
func CartRemove(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Remove(r.Context(), middleware.SessionIDFromContext(r.Context()), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(c))
	}
}

// CartClear empties the session's cart.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(&cartsvc.Cart{}))
	}
}
