package controllers

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/praveen037/agriconnect/api/middleware"
	"github.com/praveen037/agriconnect/api/responses"
	"github.com/praveen037/agriconnect/api/validators"
	"github.com/praveen037/agriconnect/internal/session"
	pkgAuth "github.com/praveen037/agriconnect/pkg/auth"
	"github.com/praveen037/agriconnect/pkg/config"
	pkgerrors "github.com/praveen037/agriconnect/pkg/errors"
	"github.com/praveen037/agriconnect/pkg/enums"
	"github.com/praveen037/agriconnect/pkg/logger"
	"github.com/praveen037/agriconnect/pkg/upstream"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  session.Identity `json:"user"`
}

type identityAPI interface {
	Login(ctx context.Context, role enums.Role, creds upstream.Credentials) (*upstream.IdentityPayload, error)
	Register(ctx context.Context, role enums.Role, body any) (*upstream.IdentityPayload, error)
	UpdateProfile(ctx context.Context, userID string, body any) (*upstream.IdentityPayload, error)
}

// AuthLogin authenticates against the role-specific core endpoint, opens a
// server-side session and returns the bearer token pointing at it.
func AuthLogin(api identityAPI, sessions *session.Store, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := enums.ParseRole(chi.URLParam(r, "role"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown role"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := api.Login(r.Context(), role, upstream.Credentials{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, loginError(err))
			return
		}

		identity, err := session.Normalize(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unusable login response"))
			return
		}
		if identity.Role != role {
			// The shared login form can post to the wrong surface; the
			// account's real role wins.
			identity.Role = role
		}

		sessionID := uuid.NewString()
		if err := sessions.Login(r.Context(), sessionID, identity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
			UserID:    identity.ID,
			SessionID: sessionID,
			Role:      identity.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{Token: token, User: identity})
	}
}

func loginError(err error) error {
	var ue *upstream.Error
	if stdErrors.As(err, &ue) {
		switch ue.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return pkgerrors.Wrap(pkgerrors.CodeAuthRequired, err, "invalid credentials")
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login unavailable")
}

// AuthRegister forwards the role-specific registration form to the core API.
// Registration does not open a session; the user signs in afterwards.
func AuthRegister(api identityAPI, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := enums.ParseRole(chi.URLParam(r, "role"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown role"))
			return
		}

		// Registration forms differ per role; the core API owns their
		// validation, so the body passes through untouched.
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		created, err := api.Register(r.Context(), role, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AuthLogout discards the server-side session. The token becomes useless
// immediately even though it has not expired.
func AuthLogout(sessions *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := sessions.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// SessionMe returns the authenticated identity for the current session.
func SessionMe(sessions *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := sessions.Current(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, identity)
	}
}

type profileUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ProfileUpdate pushes profile edits to the core API, then shallow-merges
// the same fields into the stored session so reads stay consistent.
func ProfileUpdate(api identityAPI, sessions *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload profileUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if _, err := api.UpdateProfile(r.Context(), userID, payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity, err := sessions.Update(r.Context(), middleware.SessionIDFromContext(r.Context()), session.Partial{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, identity)
	}
}
