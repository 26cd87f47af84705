// Package sync implements the subscription synchronizer: it reconciles
// the payment provider's subscription state into the local mirror.
//
// Synchronize is idempotent. Replaying it with the same inputs performs
// the same single upsert and leaves exactly one record per subscription
// id, reflecting the last successful fetch from the provider.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ignews-app/ignews-backend/internal/lib/sl"
	"github.com/ignews-app/ignews-backend/internal/models"
	"github.com/ignews-app/ignews-backend/internal/paymentprovider"
	"github.com/ignews-app/ignews-backend/internal/rabbitmq"
	"github.com/ignews-app/ignews-backend/internal/storage/repository"
)

// ErrUserNotFound means no local user carries the given payment customer
// id: an inconsistency between the provider's view and the directory.
var ErrUserNotFound = errors.New("user not found for customer")

// ErrUpstreamUnavailable means the payment provider call failed; the
// caller decides whether to retry.
var ErrUpstreamUnavailable = errors.New("payment provider unavailable")

// Repository defines the storage operations used by the synchronizer.
type Repository interface {
	// GetUserByCustomerID resolves the user owning the payment customer id.
	GetUserByCustomerID(ctx context.Context, customerID string) (*models.User, error)
	// UpsertSubscription creates or fully replaces the subscription record.
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
}

// PaymentProvider defines the provider read used by the synchronizer.
type PaymentProvider interface {
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*paymentprovider.SubscriptionResult, error)
}

// EventPublisher publishes subscription status changes for the
// notification pipeline.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service is the subscription synchronizer.
type Service struct {
	repo      Repository
	provider  PaymentProvider
	publisher EventPublisher
	log       *slog.Logger
}

// New creates a synchronizer. publisher may be nil when the notification
// pipeline is not configured.
func New(repo Repository, provider PaymentProvider, publisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// Synchronize resolves the local user owning customerID, fetches the
// authoritative subscription state for subscriptionID from the payment
// provider, and upserts the local record. Exactly one provider read and
// at most one directory write happen per call; a crash between steps is
// recoverable by re-invoking with the same inputs.
func (s *Service) Synchronize(ctx context.Context, subscriptionID, customerID string) error {
	const op = "services.sync.Synchronize"

	user, err := s.repo.GetUserByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: customer %s: %w", op, customerID, ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.provider.RetrieveSubscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w: %s", op, ErrUpstreamUnavailable, err)
	}

	sub := models.Subscription{
		ID:      subscriptionID,
		UserUID: user.UID,
		Status:  result.Status,
		PriceID: result.PriceID,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription synchronized",
		slog.String("subscription_id", subscriptionID),
		slog.String("user_uid", user.UID),
		slog.String("status", result.Status),
	)

	if s.publisher != nil {
		event := models.SubscriptionEvent{
			SubscriptionID: subscriptionID,
			UserUID:        user.UID,
			Email:          user.Email,
			Status:         result.Status,
			OccurredAt:     time.Now().UTC(),
		}
		if err := s.publisher.Publish(rabbitmq.SubscriptionKey, event); err != nil {
			s.log.Warn("failed to publish subscription event", sl.Err(err))
		}
	}

	return nil
}
