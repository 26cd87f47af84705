// Package callback implements the HTTP handler for the identity
// provider sign-in callback.
//
// Handler decodes the provider payload, validates the email, upserts the
// user record and answers with a session token. Identity verification
// itself happened upstream at the OAuth provider; this endpoint trusts
// the email it is given.
package callback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/models"
)

// Handler processes sign-in callbacks.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the sign-in business logic used by the handler.
type Service interface {
	SignIn(ctx context.Context, email string) (string, error)
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP handles the sign-in callback request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.callback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SignInRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	token, err := h.service.SignIn(r.Context(), req.User.Email)
	if err != nil {
		log.Error("failed to sign in", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sign in"))
		return
	}

	log.Info("user signed in")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}
