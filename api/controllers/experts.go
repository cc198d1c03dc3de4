package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/api/validators"
	"github.com/praveen037/agriconnect/internal/experts"
	"github.com/praveen037/agriconnect/pkg/logger"
)

type querySubmitRequest struct {
	Question string `json:"question" validate:"required"`
}

// QuerySubmit files a buyer's farming question with the expert pool.
func QuerySubmit(svc *experts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload querySubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := svc.Submit(r.Context(), middleware.UserIDFromContext(r.Context()), payload.Question)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, query)
	}
}

// QueryHistory lists the buyer's questions with any expert answers.
func QueryHistory(svc *experts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.History(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type queryAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// QueryAnswer records an expert's response to an open question.
func QueryAnswer(svc *experts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload queryAnswerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := svc.Answer(r.Context(), chi.URLParam(r, "queryId"), payload.Answer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, query)
	}
}
