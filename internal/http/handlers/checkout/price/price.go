// Package price implements the public HTTP handler exposing the
// subscription plan price for display on the landing page.
package price

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ignews-app/ignews-backend/internal/http/response"
	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/paymentprovider"
	"github.com/ignews-app/ignews-backend/internal/services/checkout"
)

// Handler serves the plan price.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the price lookup used by the handler.
type Service interface {
	RetrievePrice(ctx context.Context) (*paymentprovider.PriceResult, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP handles the price request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.price"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	price, err := h.service.RetrievePrice(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrUpstreamUnavailable) {
			log.Error("payment provider unavailable", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
			return
		}
		log.Error("failed to retrieve price", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not retrieve price"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"amount":   price.Amount,
		"currency": price.Currency,
	}))
}
