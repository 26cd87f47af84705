// Package webhook implements the payment provider webhook endpoint.
//
// The handler verifies the event signature, extracts the subscription
// and customer ids from the events it cares about and hands them to the
// synchronizer. Unrecognized event types are acknowledged and ignored.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/services/sync"
)

// maxBodyBytes bounds the webhook payload size, per provider guidance.
const maxBodyBytes = int64(65536)

// Service describes the synchronizer used by the handler.
type Service interface {
	Synchronize(ctx context.Context, subscriptionID, customerID string) error
}

// Handler processes payment provider events.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New creates a Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP handles a webhook delivery.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Error("invalid webhook signature", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	subscriptionID, customerID, relevant, err := extractIDs(event)
	if err != nil {
		log.Error("failed to parse event payload", slog.String("type", string(event.Type)), sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !relevant {
		log.Info("ignored webhook event", slog.String("type", string(event.Type)))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.service.Synchronize(r.Context(), subscriptionID, customerID); err != nil {
		switch {
		case errors.Is(err, sync.ErrUpstreamUnavailable):
			log.Error("payment provider unavailable", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
		default:
			log.Error("failed to synchronize subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	log.Info("webhook processed",
		slog.String("type", string(event.Type)),
		slog.String("subscription_id", subscriptionID),
	)
	w.WriteHeader(http.StatusOK)
}

// extractIDs pulls the subscription and customer ids out of the events
// the synchronizer reacts to. relevant is false for every other type.
func extractIDs(event stripe.Event) (subscriptionID, customerID string, relevant bool, err error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", "", false, err
		}
		if session.Subscription == nil || session.Customer == nil {
			return "", "", false, errors.New("checkout session without subscription or customer")
		}
		return session.Subscription.ID, session.Customer.ID, true, nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", "", false, err
		}
		if sub.Customer == nil {
			return "", "", false, errors.New("subscription without customer")
		}
		return sub.ID, sub.Customer.ID, true, nil
	}
	return "", "", false, nil
}
