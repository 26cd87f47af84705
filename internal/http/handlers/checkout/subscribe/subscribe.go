// Package subscribe implements the HTTP handler that starts a payment
// checkout for the signed-in reader.
//
// The handler accepts POST only and answers any other method with
// 405 Method Not Allowed plus an Allow: POST header, before looking at
// the session. The reader identity comes from the session token.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/jwt"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/services/checkout"
)

// Handler starts checkout sessions.
type Handler struct {
	log     *slog.Logger
	service Service
	maker   jwt.Maker
}

// Service describes the checkout business logic used by the handler.
type Service interface {
	CreateCheckoutSession(ctx context.Context, email string) (string, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service, maker jwt.Maker) *Handler {
	return &Handler{
		log:     log,
		service: service,
		maker:   maker,
	}
}

// ServeHTTP handles the subscribe request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		log.Error("method not allowed", slog.String("method", r.Method))
		w.Header().Set("Allow", http.MethodPost)
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("method not allowed"))
		return
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Error("missing or invalid authorization header")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}

	claims, err := h.maker.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		log.Error("invalid or expired token", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	sessionID, err := h.service.CreateCheckoutSession(r.Context(), claims.Email)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, checkout.ErrUpstreamUnavailable):
			log.Error("payment provider unavailable", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create checkout session"))
		}
		return
	}

	log.Info("checkout session created")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessionId": sessionID,
	}))
}
